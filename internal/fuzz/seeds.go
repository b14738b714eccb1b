package fuzztests

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

const maxSeedBytes = 64 << 10

// languageSeeds cover constructs whose parentheses the analyzer treats
// specially.
var languageSeeds = []string{
	"",
	"var x = (a);\n",
	"var y = (int)(-1) + (a ? b : c);\n",
	"var s = $\"{(a ? b : c)}\";\n",
	"if (x is (not null) and (> 0)) { }\n",
	"var f = (Func<int>)(() => 1);\n",
	"M((a < b), (c > d));\n",
	"#if (DEBUG && !(TRACE))\nvar z = 1;\n#endif\n",
	"class C\n{\n    int M(int value)\n    {\n        return(value);\n    }\n}\n",
	"var q = (from x in xs select (x * 2)).ToList();\n",
	"var n = checked((a + b) * c);\n",
	"switch (k) { case (1): break; }\n",
}

func addCorpusSeeds(f *testing.F) {
	for _, s := range languageSeeds {
		f.Add([]byte(s))
	}
	addTestdataSeeds(f, filepath.Join("..", "report", "testdata"))
}

func addTestdataSeeds(f *testing.F, root string) {
	if _, err := os.Stat(root); err != nil {
		return
	}
	// все *.cs из testdata, вывод эталонов пропускаем
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() || filepath.Ext(path) != ".cs" {
			return nil
		}
		// #nosec G304 -- path comes from repository testdata walk
		src, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		f.Add(clampSeed(src))
		return nil
	})
}

func clampSeed(src []byte) []byte {
	if len(src) <= maxSeedBytes {
		return append([]byte(nil), src...)
	}
	return append([]byte(nil), src[:maxSeedBytes]...)
}
