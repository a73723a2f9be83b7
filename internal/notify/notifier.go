// Package notify renders all user-facing output: per-group listings,
// action lines, warnings, and the end-of-run summary.
package notify

import (
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
)

var (
	bold   = color.New(color.Bold)
	green  = color.New(color.FgGreen)
	yellow = color.New(color.FgYellow)
)

type Notifier struct {
	out io.Writer
	err io.Writer
}

func New(out, err io.Writer) *Notifier {
	return &Notifier{out: out, err: err}
}

func (n *Notifier) ScanningDirectory(dir string) {
	fmt.Fprintf(n.out, "scanning directory: %s\n", dir)
}

func (n *Notifier) ScanComplete(files int, elapsed time.Duration) {
	rate := 0.0
	if s := elapsed.Seconds(); s > 0 {
		rate = float64(files) / s
	}
	fmt.Fprintf(n.out, "fingerprinted %d files in %s (%.1f files/second)\n",
		files, elapsed.Round(time.Millisecond), rate)
}

// FoundGroup prints one duplicate group. The canonical member is marked;
// every other member is a candidate for the selected action.
func (n *Notifier) FoundGroup(fingerprint string, paths []string, canonical int) {
	bold.Fprintf(n.out, "\nduplicates for fingerprint %s:\n", fingerprint)
	for i, p := range paths {
		if i == canonical {
			fmt.Fprintf(n.out, "  = %s (kept)\n", p)
			continue
		}
		fmt.Fprintf(n.out, "  - %s\n", p)
	}
}

func (n *Notifier) Listed(path string) {
	fmt.Fprintf(n.out, "  * duplicate: %s\n", path)
}

func (n *Notifier) Moved(src, dst string) {
	green.Fprintf(n.out, "  * moved %s -> %s\n", src, dst)
}

func (n *Notifier) Deleted(path string) {
	green.Fprintf(n.out, "  * deleted %s\n", path)
}

func (n *Notifier) Warn(path string, err error) {
	yellow.Fprintf(n.err, "warning: %s: %v\n", path, err)
}

func (n *Notifier) Summary(scanned, groups, duplicates, acted, skipped, corrupt int) {
	fmt.Fprintf(n.out, "\n--- summary ---\n")
	fmt.Fprintf(n.out, "files scanned:     %d\n", scanned)
	fmt.Fprintf(n.out, "duplicate groups:  %d\n", groups)
	fmt.Fprintf(n.out, "duplicate files:   %d\n", duplicates)
	fmt.Fprintf(n.out, "acted on:          %d\n", acted)
	if skipped > 0 {
		fmt.Fprintf(n.out, "skipped:           %d\n", skipped)
	}
	fmt.Fprintf(n.out, "corrupt/unreadable: %d\n", corrupt)
}

// CorruptFiles lists every file skipped with a warning during the scan.
func (n *Notifier) CorruptFiles(paths []string) {
	if len(paths) == 0 {
		return
	}
	fmt.Fprintf(n.out, "\nthe following files were skipped:\n")
	for _, p := range paths {
		fmt.Fprintf(n.out, "  - %s\n", p)
	}
}
