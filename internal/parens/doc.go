// Package parens decides, for every explicitly parenthesized node of a file,
// whether the parentheses can be dropped without changing what the code means.
//
// # Pipeline
//
// A Tree indexes one parsed and annotated file: the parent and slot of every
// expression plus the document order of the groups. For each group the
// analyzer then runs four checks in order and stops at the first one that
// keeps the parentheses:
//
//   - grammar (grammar.go): fixed syntactic hazards, where removing the
//     parentheses would re-parse differently or not parse at all;
//   - precedence (evaluate.go): the child binds at least as tightly as its
//     position demands, with the associativity and operand-kind caveat for
//     equal-precedence right operands;
//   - clarity (clarity.go): the configured style may still want the
//     parentheses around mixed-precedence binary operands;
//   - the master ignore switch, checked first of all.
//
// Analyze reports a Verdict per group and is stateless: every group is judged
// against the original tree. FixAll removes groups one at a time in document
// order and judges each candidate against an overlay in which the groups
// already removed are transparent, so pairs that are only individually
// removable keep one of their members.
package parens
