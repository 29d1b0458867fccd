// SPDX-License-Identifier: EPL-2.0

package melfeat

import (
	"github.com/ik5/melfeat/audio"
	"github.com/ik5/melfeat/formats/aiff"
	"github.com/ik5/melfeat/formats/mp3"
	"github.com/ik5/melfeat/formats/vorbis"
	"github.com/ik5/melfeat/formats/wav"
)

// NewRegistry returns a registry with every bundled decoder registered under
// its common file extensions.
func NewRegistry() *audio.Registry {
	reg := audio.NewRegistry()

	reg.Register("wav", wav.Decoder{})
	reg.Register("wave", wav.Decoder{})
	reg.Register("aif", aiff.Decoder{})
	reg.Register("aiff", aiff.Decoder{})
	reg.Register("mp3", mp3.Decoder{})
	reg.Register("ogg", vorbis.Decoder{})
	reg.Register("oga", vorbis.Decoder{})

	return reg
}
