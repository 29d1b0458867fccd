// SPDX-License-Identifier: EPL-2.0

package dataset

// FileResult is the outcome of processing one clip. Label is -1 when the
// name could not be parsed. A zero FileResult marks a clip that was never
// processed because the run stopped early.
type FileResult struct {
	Clip    Clip
	Label   int
	Windows int
	Err     error
}

func (r FileResult) Failed() bool { return r.Err != nil }

func (r FileResult) processed() bool { return r.Clip.Path != "" }

// Report summarizes a Build run. Results follow enumeration order and hold a
// zero FileResult for every clip skipped by an early stop.
type Report struct {
	Clips   int
	Failed  int
	Samples int
	Results []FileResult
}

func (r *Report) Failures() []FileResult {
	var out []FileResult
	for _, res := range r.Results {
		if res.Failed() {
			out = append(out, res)
		}
	}

	return out
}

// TooShort counts clips that decoded but produced no window.
func (r *Report) TooShort() int {
	n := 0
	for _, res := range r.Results {
		if res.processed() && !res.Failed() && res.Windows == 0 {
			n++
		}
	}

	return n
}

func (r *Report) tally() {
	r.Failed, r.Samples = 0, 0
	for _, res := range r.Results {
		if res.Failed() {
			r.Failed++
		}
		r.Samples += res.Windows
	}
}
