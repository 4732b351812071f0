package runtime

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// goldenTest runs a .spell file and compares its output to a .expected file.
func goldenTest(t *testing.T, name string) {
	t.Helper()

	spellPath := filepath.Join("..", "..", "testdata", name+".spell")
	expectedPath := filepath.Join("..", "..", "testdata", name+".expected")

	source, err := os.ReadFile(spellPath)
	if err != nil {
		t.Fatalf("failed to read %s: %v", spellPath, err)
	}

	expected, err := os.ReadFile(expectedPath)
	if err != nil {
		t.Fatalf("failed to read %s: %v", expectedPath, err)
	}

	got, err := runSource(string(source))
	if err != nil {
		t.Fatalf("runtime error: %v", err)
	}

	expectedStr := strings.TrimRight(string(expected), "\n")
	gotStr := strings.TrimRight(got, "\n")

	if gotStr != expectedStr {
		expectedLines := strings.Split(expectedStr, "\n")
		gotLines := strings.Split(gotStr, "\n")

		t.Errorf("output mismatch for %s", name)
		maxLines := len(expectedLines)
		if len(gotLines) > maxLines {
			maxLines = len(gotLines)
		}
		for i := 0; i < maxLines; i++ {
			var exp, g string
			if i < len(expectedLines) {
				exp = expectedLines[i]
			} else {
				exp = "<missing>"
			}
			if i < len(gotLines) {
				g = gotLines[i]
			} else {
				g = "<missing>"
			}
			prefix := "  "
			if exp != g {
				prefix = "! "
			}
			t.Logf("%sline %d: expected=%q got=%q", prefix, i+1, exp, g)
		}
	}
}

func TestGoldenArithmeticAndPrint(t *testing.T) {
	goldenTest(t, "golden_arithmetic")
}

func TestGoldenLoopus(t *testing.T) {
	goldenTest(t, "golden_loopus")
}

func TestGoldenPersistusSum(t *testing.T) {
	goldenTest(t, "golden_persistus")
}

func TestGoldenFunctionsAndClosures(t *testing.T) {
	goldenTest(t, "golden_functions")
}

func TestGoldenIfElsear(t *testing.T) {
	goldenTest(t, "golden_ifelsear")
}

func TestGoldenProtegoAlohomora(t *testing.T) {
	goldenTest(t, "golden_protego")
}

func TestGoldenBloodline(t *testing.T) {
	goldenTest(t, "golden_bloodline")
}

func TestGoldenCollections(t *testing.T) {
	goldenTest(t, "golden_collections")
}
