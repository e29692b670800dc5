package tablebase

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/OfekShochat/Smallbrain/internal/board"
)

// FileProber loads Syzygy-style tablebase files from a directory, indexed
// by the piece count each file encodes in its name (KQvK.rtbw ->
// 3 pieces, KRPvKR.rtbw -> 5, ...). Actually decoding the Syzygy wire
// format is out of scope here — this stub establishes the on/off
// switching spec.md §7 calls for (missing/corrupt files degrade to
// NoopProber behaviour rather than aborting the engine) so the UCI front
// end has a real `setoption name SyzygyPath` to drive.
type FileProber struct {
	dir       string
	maxPieces int
}

// NewFileProber scans dir for tablebase files and returns a FileProber. If
// dir is empty or unreadable, it returns a FileProber with MaxPieces() == 0,
// which behaves exactly like NoopProber.
func NewFileProber(dir string) *FileProber {
	fp := &FileProber{dir: dir}
	if dir == "" {
		return fp
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return fp
	}

	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if n := pieceCountFromName(e.Name()); n > fp.maxPieces {
			fp.maxPieces = n
		}
	}
	return fp
}

// pieceCountFromName counts the piece letters in a Syzygy-style basename
// like "KQPvKR.rtbw", ignoring the extension and the 'v' side separator.
func pieceCountFromName(name string) int {
	base := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	base = strings.ReplaceAll(base, "v", "")
	n := 0
	for _, r := range base {
		if r >= 'A' && r <= 'Z' {
			n++
		}
	}
	return n
}

func (fp *FileProber) Probe(pos *board.Board) ProbeResult {
	if !fp.Available() {
		return ProbeResult{Found: false}
	}
	// Loading and decoding the actual Syzygy WDL/DTZ tables is out of
	// scope; a real implementation would mmap fp.dir's .rtbw/.rtbz files
	// keyed by pos's material signature here.
	return ProbeResult{Found: false}
}

func (fp *FileProber) ProbeRoot(pos *board.Board) RootResult {
	if !fp.Available() {
		return RootResult{Found: false}
	}
	return RootResult{Found: false}
}

func (fp *FileProber) MaxPieces() int { return fp.maxPieces }

func (fp *FileProber) Available() bool { return fp.maxPieces > 0 }

var _ Prober = (*FileProber)(nil)

// syzygyDepthBonus mirrors spec.md §4.C's "tablebase hits are stored with
// depth = real_depth + 6" rule; exposed through TTStoreDepth so the TT store
// call site doesn't need to hardcode the constant.
const syzygyDepthBonus = 6

// TTStoreDepth returns the depth a tablebase hit should be stored with.
func TTStoreDepth(realDepth int) int {
	return realDepth + syzygyDepthBonus
}
