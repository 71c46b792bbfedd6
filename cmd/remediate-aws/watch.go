package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/cloudassembly/remediate-aws-go/remediation"
)

// newWatchCmd creates the "watch" subcommand for auto-rebuilding on changes.
func newWatchCmd() *cobra.Command {
	var (
		debounce     time.Duration
		outputFormat string
		outputFile   string
	)

	cmd := &cobra.Command{
		Use:   "watch <config>",
		Short: "Auto-rebuild on config or policy changes",
		Long: `Watch monitors the deployment config and policy sources and rebuilds
on every change.

The watch command:
- Monitors the config file and the config directory
- Restages policies and re-renders the template on each change
- Debounces rapid changes to avoid excessive rebuilds

Examples:
    remediate-aws watch deployment.yaml
    remediate-aws watch deployment.yaml -o template.json
    remediate-aws watch deployment.yaml --debounce 1s`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(args[0], watchOptions{
				debounce:     debounce,
				outputFormat: outputFormat,
				outputFile:   outputFile,
			})
		},
	}

	cmd.Flags().DurationVar(&debounce, "debounce", 500*time.Millisecond, "Debounce duration for rapid changes")
	cmd.Flags().StringVarP(&outputFormat, "format", "f", "json", "Output format for build: json or yaml")
	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file for build (default: stdout)")

	return cmd
}

type watchOptions struct {
	debounce     time.Duration
	outputFormat string
	outputFile   string
}

// runWatch monitors the config and policy sources and rebuilds on changes.
func runWatch(configPath string, opts watchOptions) error {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() {
		_ = watcher.Close()
	}()

	// Rebuilds write into the artifact dir and the output file. Both must
	// be invisible to the watcher or every build schedules the next one.
	artifactDir := effectiveArtifactDir(cfg)
	var outputAbs string
	if opts.outputFile != "" {
		outputAbs, _ = filepath.Abs(opts.outputFile)
	}

	dirs := watchDirs(configPath, cfg)
	for _, dir := range dirs {
		if err := addDirRecursive(watcher, dir, artifactDir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
		fmt.Printf("Watching: %s\n", dir)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	fmt.Println("Running initial build...")
	rebuild(configPath, opts)

	var debounceTimer *time.Timer
	rebuildChan := make(chan struct{}, 1)

	fmt.Println("\nWatching for changes... (Ctrl+C to stop)")

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			if !watchableFile(event.Name) {
				continue
			}
			if buildOutput(event.Name, artifactDir, outputAbs) {
				continue
			}

			// Only process write/create events
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}

			// Debounce: reset timer on each change
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(opts.debounce, func() {
				select {
				case rebuildChan <- struct{}{}:
				default:
				}
			})

		case <-rebuildChan:
			fmt.Printf("\n[%s] Change detected, rebuilding...\n", time.Now().Format("15:04:05"))
			rebuild(configPath, opts)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(os.Stderr, "Watch error: %v\n", err)

		case <-sigChan:
			fmt.Println("\nStopping watch...")
			return nil
		}
	}
}

// watchDirs returns the directories to monitor, deduplicated.
func watchDirs(configPath string, cfg *Config) []string {
	var dirs []string
	seen := make(map[string]bool)

	add := func(dir string) {
		abs, err := filepath.Abs(dir)
		if err != nil {
			return
		}
		if !seen[abs] {
			seen[abs] = true
			dirs = append(dirs, abs)
		}
	}

	add(filepath.Dir(configPath))
	add(cfg.ConfigDir)
	return dirs
}

// watchableFile reports whether a change to name should trigger a rebuild.
func watchableFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml", ".json":
		return true
	}
	return false
}

// effectiveArtifactDir resolves where rebuilds stage the deployment package,
// applying the same defaults the build does.
func effectiveArtifactDir(cfg *Config) string {
	conv := remediation.DefaultConventions()
	if cfg.ArtifactRoot != "" {
		conv.ArtifactRoot = cfg.ArtifactRoot
	}
	abs, err := filepath.Abs(filepath.Join(conv.ArtifactRoot, conv.ArtifactSubdir))
	if err != nil {
		return filepath.Join(conv.ArtifactRoot, conv.ArtifactSubdir)
	}
	return abs
}

// buildOutput reports whether name is something a rebuild itself writes:
// a staged policy under the artifact dir, or the rendered template file.
func buildOutput(name, artifactDir, outputFile string) bool {
	abs, err := filepath.Abs(name)
	if err != nil {
		return false
	}
	if outputFile != "" && abs == outputFile {
		return true
	}
	if artifactDir != "" {
		if rel, err := filepath.Rel(artifactDir, abs); err == nil && rel == "." {
			return true
		} else if err == nil && !strings.HasPrefix(rel, "..") {
			return true
		}
	}
	return false
}

// addDirRecursive adds a directory and its subdirectories to the watcher.
// The artifact dir is skipped so staged output does not retrigger builds.
func addDirRecursive(watcher *fsnotify.Watcher, dir, artifactDir string) error {
	return filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.IsDir() {
			if strings.HasPrefix(filepath.Base(path), ".") && path != dir {
				return filepath.SkipDir
			}
			if abs, err := filepath.Abs(path); err == nil && abs == artifactDir {
				return filepath.SkipDir
			}
			return watcher.Add(path)
		}
		return nil
	})
}

// rebuild restages policies and re-renders the template.
func rebuild(configPath string, opts watchOptions) {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Build error: %v\n", err)
		return
	}

	tmpl, d, err := renderTemplate(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Build error: %v\n", err)
		return
	}

	logrus.WithFields(logrus.Fields{
		"artifact_dir": d.ArtifactDir,
		"policies":     len(d.StagedPolicies),
	}).Debug("rebuild complete")

	if opts.outputFile == "" {
		fmt.Println("Build successful")
		fmt.Printf("Staged %d policies, rendered %d resources\n",
			len(d.StagedPolicies), len(tmpl.Resources))
		return
	}

	if err := outputTemplate(tmpl, opts.outputFormat, opts.outputFile); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write output: %v\n", err)
		return
	}
	fmt.Printf("Build successful, wrote %s\n", opts.outputFile)
}
