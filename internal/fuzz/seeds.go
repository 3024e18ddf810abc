package fuzztests

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/tools/txtar"
)

const maxSeedBytes = 64 << 10

const maxFuzzInput = 1 << 16 // 64 KiB

// languageSeeds cover every statement form and the usual error paths.
var languageSeeds = []string{
	"",
	"exit(0);",
	"let x: u8 = 3;\nexit(x);\n",
	"let mut i: u32 = 0;\nwhile i < 10 { i += 1; if i == 5 { break; } }\nexit(i);\n",
	"let a: i32 = -4;\nlet b: i32 = a / 2 % 3 << 1;\nexit(b);\n",
	"if true { exit(1); } else if false { exit(2); } else { exit(3); }",
	"let mut p: u64 = 1; p &~= 1; p |= 6; p ^= 2; exit(p);",
	"let x: u8 = 1; let y: *u8 = &x; exit(*y);",
	"fn f(a: u32) -> u32 { return a; }",
	"{ let x: u16 = 300; { exit(x); } }",
	"let x: f64 = 1;",
	"exit(y);",
	"let x: u8 = true;",
	"let = ;",
	"while { }",
	"/* unterminated",
	"let x: u8 = 0x;",
	"exit(1 +);",
}

func addCorpusSeeds(f *testing.F) {
	for _, s := range languageSeeds {
		f.Add([]byte(s))
	}
	addTestdataSeeds(f)
}

// addTestdataSeeds adds the input.em sections of the codegen golden archives.
func addTestdataSeeds(f *testing.F) {
	root := filepath.Join("..", "codegen", "testdata")
	if _, err := os.Stat(root); err != nil {
		return
	}
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() || filepath.Ext(path) != ".txtar" {
			return nil
		}
		ar, err := txtar.ParseFile(path)
		if err != nil {
			return nil
		}
		for _, file := range ar.Files {
			if file.Name == "input.em" {
				f.Add(clampSeed(file.Data))
			}
		}
		return nil
	})
}

func clampSeed(src []byte) []byte {
	if len(src) > maxSeedBytes {
		return append([]byte(nil), src[:maxSeedBytes]...)
	}
	return src
}

func clampInput(input []byte) []byte {
	if len(input) > maxFuzzInput {
		return append([]byte(nil), input[:maxFuzzInput]...)
	}
	return append([]byte(nil), input...)
}
