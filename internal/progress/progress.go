// SPDX-License-Identifier: EPL-2.0

// Package progress renders one terminal progress bar per dataset folder.
package progress

import (
	"io"
	"sync"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"

	"github.com/ik5/melfeat/dataset"
)

// Tracker adapts dataset.Builder callbacks to mpb bars. Observe is safe for
// concurrent use once Start has returned.
type Tracker struct {
	p *mpb.Progress

	mu   sync.RWMutex
	bars map[string]*mpb.Bar
}

func New(out io.Writer) *Tracker {
	return &Tracker{
		p:    mpb.New(mpb.WithOutput(out), mpb.WithWidth(64)),
		bars: make(map[string]*mpb.Bar),
	}
}

// Start adds a bar for every folder that has at least one clip, in the order
// folders first appear.
func (t *Tracker) Start(clips []dataset.Clip) {
	var order []string
	counts := make(map[string]int64)
	for _, c := range clips {
		if _, ok := counts[c.Folder]; !ok {
			order = append(order, c.Folder)
		}
		counts[c.Folder]++
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	for _, folder := range order {
		t.bars[folder] = t.p.AddBar(counts[folder],
			mpb.PrependDecorators(
				decor.Name(folder+" "),
				decor.CountersNoUnit("%d / %d"),
			),
			mpb.AppendDecorators(decor.Percentage()),
		)
	}
}

// Observe advances the bar of the clip's folder.
func (t *Tracker) Observe(res dataset.FileResult) {
	t.mu.RLock()
	bar, ok := t.bars[res.Clip.Folder]
	t.mu.RUnlock()

	if ok {
		bar.Increment()
	}
}

// Wait stops rendering. Bars left incomplete by a cancelled or failed build
// are aborted so Wait does not block.
func (t *Tracker) Wait() {
	t.mu.RLock()
	for _, bar := range t.bars {
		if !bar.Completed() {
			bar.Abort(false)
		}
	}
	t.mu.RUnlock()

	t.p.Wait()
}

// Options hooks the tracker into builder options.
func (t *Tracker) Options(opts dataset.Options) dataset.Options {
	opts.OnClips = t.Start
	opts.OnFile = t.Observe

	return opts
}
