// Package staging copies remediation policy documents into the directory that
// is packaged as the function's code artifact.
//
// Staging must complete before any declaration references the artifact
// directory, because the provisioning backend reads the directory when the
// declaration is evaluated. Stage therefore runs synchronously and returns a
// Result carrying the resolved artifact path; callers take the path from the
// Result, never from a bare string they assembled earlier.
package staging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// File describes one policy document to stage.
type File struct {
	// Name identifies the policy document.
	Name string
	// Source is the path the document is copied from.
	Source string
	// Dest is the path inside the artifact directory the document is copied
	// to. Empty means the file is staged under its Name at the root.
	Dest string
}

// Result reports a completed staging run.
type Result struct {
	// Dir is the resolved artifact directory.
	Dir string
	// Staged lists the destination paths of every copied file.
	Staged []string
}

// Stage copies each file into destDir and returns the resolved artifact path.
//
// An empty file list is a valid "nothing to stage" configuration: the artifact
// directory is still created and the run succeeds with zero copies. Any
// unreadable source or unwritable destination aborts the run.
func Stage(files []File, destDir string) (*Result, error) {
	if destDir == "" {
		return nil, fmt.Errorf("staging destination must not be empty")
	}

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating artifact directory %s: %w", destDir, err)
	}

	result := &Result{Dir: destDir}

	for _, f := range files {
		rel := f.Dest
		if rel == "" {
			rel = f.Name
		}

		dest := filepath.Join(destDir, rel)
		if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
			return nil, fmt.Errorf("creating staging directory for %s: %w", f.Name, err)
		}

		if err := copyFile(f.Source, dest); err != nil {
			return nil, fmt.Errorf("staging policy %s: %w", f.Name, err)
		}

		logrus.WithFields(logrus.Fields{
			"policy": f.Name,
			"dest":   dest,
		}).Debug("staged policy document")

		result.Staged = append(result.Staged, dest)
	}

	logrus.WithFields(logrus.Fields{
		"dir":   destDir,
		"count": len(result.Staged),
	}).Debug("staging complete")

	return result, nil
}

func copyFile(source, dest string) error {
	in, err := os.Open(source)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dest)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}

	return out.Close()
}
