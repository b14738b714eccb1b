// Package fuzztests houses Go fuzz harnesses over the whole pipeline:
// source, lexer, parser, annotation, parenthesis analysis and fix-all.
// Besides guarding against panics and hangs, the pipeline harness checks
// that removing every removable group leaves a file that still parses.
//
// Назначение: прогонять произвольные байты через FileSet, лексер, парсер и
// анализатор скобок.
//
// Не делает: генерацию корпусов, запись файлов, выполнение CLI.
package fuzztests
