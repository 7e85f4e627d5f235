package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.viam.com/test"
)

func TestFileAppender(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "frametree.log")
	file := NewFileAppender(filename, 1, 1)
	logger := newImpl("tree", INFO, true, file)

	logger.Debug("dropped")
	logger.Warnw("frame transform is not orthonormal", "frame", "b")
	test.That(t, logger.Sync(), test.ShouldBeNil)
	test.That(t, file.Close(), test.ShouldBeNil)

	data, err := os.ReadFile(filename)
	test.That(t, err, test.ShouldBeNil)
	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	test.That(t, lines, test.ShouldHaveLength, 1)
	parts := strings.Split(lines[0], "\t")
	test.That(t, parts[1], test.ShouldEqual, "WARN")
	test.That(t, parts[2], test.ShouldEqual, "tree")
	test.That(t, parts[4], test.ShouldEqual, "frame transform is not orthonormal")
	test.That(t, parts[5], test.ShouldEqual, `{"frame":"b"}`)
}
