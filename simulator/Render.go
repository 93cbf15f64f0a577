package simulator

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fogleman/gg"
)

// DefaultRenderDir is the directory frames are written to when
// Options.RenderDir is empty
const DefaultRenderDir = "frames"

// Recorder saves rendered frames of a simulator as numbered PNG files
// of the form <dir>/<name>-e<episode>-f<frame>.png
type Recorder struct {
	dir     string
	name    string
	episode int
	frame   int
}

// NewRecorder returns a new Recorder writing frames to dir, creating
// dir if needed
func NewRecorder(dir, name string) (*Recorder, error) {
	if dir == "" {
		dir = DefaultRenderDir
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("newRecorder: could not create render "+
			"directory: %v", err)
	}
	return &Recorder{dir: dir, name: name, episode: -1}, nil
}

// NextEpisode starts numbering frames for a new episode
func (r *Recorder) NextEpisode() {
	r.episode++
	r.frame = 0
}

// Save writes the frame drawn on dc and returns the file path
func (r *Recorder) Save(dc *gg.Context) (string, error) {
	if r.episode < 0 {
		r.NextEpisode()
	}

	path := filepath.Join(r.dir, fmt.Sprintf("%v-e%v-f%v.png", r.name,
		r.episode, r.frame))
	if err := dc.SavePNG(path); err != nil {
		return "", fmt.Errorf("save: could not save frame: %v", err)
	}
	r.frame++

	return path, nil
}
