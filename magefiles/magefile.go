//go:build mage

// Package main contains Mage build targets for qm9-simplify developer tooling.
package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binDir  = "bin"
	binName = "qm9-simplify"
	cmdPkg  = "./cmd/qm9-simplify"

	// sampleDir holds the extended XYZ fixtures written by Sample.
	sampleDir = "testdata/qm9"
)

// Build compiles the CLI binary into bin/.
func Build() error {
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", binDir, err)
	}
	out := filepath.Join(binDir, binName)
	if err := sh.RunV("go", "build", "-o", out, cmdPkg); err != nil {
		return fmt.Errorf("go build: %w", err)
	}
	fmt.Printf("Built %s\n", out)
	return nil
}

// Test runs the unit tests.
func Test() error {
	return sh.RunV("go", "test", "./...")
}

// Sample writes a small QM9-style dataset into testdata/qm9 and simplifies it
// into testdata/qm9-simplified with the freshly built binary.
func Sample() error {
	mg.Deps(Build)

	if err := os.MkdirAll(sampleDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", sampleDir, err)
	}
	for name, content := range sampleFiles {
		path := filepath.Join(sampleDir, name)
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
		fmt.Println("  ", path)
	}

	bin := filepath.Join(binDir, binName)
	return sh.RunV(bin, "-id", sampleDir, "-od", sampleDir+"-simplified")
}

// sampleFiles are the first two molecules of QM9 (methane, ammonia) in the
// extended layout: count line, property line, atom lines with Mulliken charges.
var sampleFiles = map[string]string{
	"dsgdb9nsd_000001.xyz": `5
gdb 1	157.7118	157.70997	157.70699	0.	13.21	-0.3877	0.1171	0.5048	35.3641	0.044749	-40.47893	-40.476062	-40.475117	-40.498597	6.469	
C	-0.0126981359	 1.0858041578	 0.0080009958	-0.535689
H	 0.002150416	-0.0060313176	 0.0019761204	 0.133921
H	 1.0117308433	 1.4637511618	 0.0002765748	 0.133922
H	-0.540815069	 1.4475266138	-0.8766437152	 0.133923
H	-0.5238136345	 1.4379326443	 0.9063972942	 0.133923
1341.307	1341.3284	1341.365	1562.6731	1562.7453	3038.3205	3151.6034	3151.6788	3151.7078
C	C	
InChI=1S/CH4/h1H4	InChI=1S/CH4/h1H4
`,
	"dsgdb9nsd_000002.xyz": `4
gdb 2	293.60975	293.54111	191.39397	1.6256	9.46	-0.257	0.0829	0.3399	26.1563	0.034358	-56.525887	-56.523026	-56.522082	-56.544961	6.316	
N	-0.0404260543	 1.0241077531	 0.0625637998	-0.707143
H	 0.0172574639	 0.0125452063	-0.0273771593	 0.235712
H	 0.9157893661	 1.3587451948	-0.0287577581	 0.235712
H	-0.5202777357	 1.3435910864	-0.7755426124	 0.235719
1103.8733	1684.1158	1684.3072	3458.6177	3585.5811	3585.9902
N	N	
InChI=1S/H3N/h1H3	InChI=1S/H3N/h1H3
`,
}

// Stats prints project metrics: Go production/test lines and the number of
// sample fixtures.
func Stats() error {
	prod, test, err := countGoLines(".")
	if err != nil {
		return err
	}
	fixtures, err := filepath.Glob(filepath.Join(sampleDir, "*.xyz"))
	if err != nil {
		return err
	}

	fmt.Printf("Lines of code (Go, production): %d\n", prod)
	fmt.Printf("Lines of code (Go, tests):      %d\n", test)
	fmt.Printf("Sample fixtures:                %d\n", len(fixtures))
	return nil
}

// countGoLines walks root and counts non-blank lines in .go files, split into
// production and _test.go files. Directories starting with "_" or "." are
// skipped, as the go tool does.
func countGoLines(root string) (prod, test int, err error) {
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			name := d.Name()
			if path != root && (strings.HasPrefix(name, "_") || strings.HasPrefix(name, ".")) {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != ".go" {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		n := 0
		for _, line := range strings.Split(string(data), "\n") {
			if strings.TrimSpace(line) != "" {
				n++
			}
		}
		if strings.HasSuffix(path, "_test.go") {
			test += n
		} else {
			prod += n
		}
		return nil
	})
	return prod, test, err
}
