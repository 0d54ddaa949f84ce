package fuzztests

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

const (
	maxSeedBytes = 64 << 10 // ограничение для тестового корпуса
)

var inlineSeeds = []string{
	"",
	"interface IFoo { };",
	"[uuid(5a8ec2d1-55b4-4c0a-8a30-6e0a3d4ba4c1)] interface IFoo { Ping(); }",
	"namespace a { namespace b { enum E { X = 1 << 3, Y } } }",
	"const Integer N = (2 + 3) * -4;",
	"interface IList<T> { Get([in] Integer i, [out] T* v); }\ninterface IUse { Take([in] IList<Integer> l); }",
	"interface IFwd;\ninterface IFwd { Self([in] IFwd x); }",
	"module M { coclass C { IFoo; } }",
	"include \"nope.cdl\";",
	"interface I { Take([in, out Integer x); }",
	"enum { , , }",
	"\"open",
	"/* unterminated",
}

func addCorpusSeeds(f *testing.F) {
	addTestdataSeeds(f)
	for _, s := range inlineSeeds {
		f.Add([]byte(s))
	}
}

func addTestdataSeeds(f *testing.F) {
	root := filepath.Join("..", "..", "testdata")
	if _, err := os.Stat(root); err != nil {
		return
	}
	// проходим по дереву testdata, добавляем все *.cdl файлы
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() || filepath.Ext(path) != ".cdl" {
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

const maxFuzzInput = 1 << 16 // 64 KiB

func clampInput(input []byte) []byte {
	if len(input) > maxFuzzInput {
		return append([]byte(nil), input[:maxFuzzInput]...)
	}
	return append([]byte(nil), input...)
}
