// Package render implements the tiled renderer and the session registry
// that lets a host decode a RAW file once and issue many cheap renders
// (four preview tiers plus export) against it without re-decoding.
package render

import (
	"sync"
	"sync/atomic"

	"github.com/rawforge/devcore/internal/xerrors"
	"github.com/rawforge/devcore/mask"
	"github.com/rawforge/devcore/rawio"
	"github.com/rawforge/devcore/transform"
)

// maskCacheEntry is the last whole-image mask rasterization this session
// produced, along with the key it was produced for.
type maskCacheEntry struct {
	key           string
	width, height int
	runtimes      []mask.Runtime
}

// Session owns one RAW file's bytes and caches its decoded image across
// however many renders the host requests against it. Decode happens
// lazily, on the first render (metadata is read from the raw bytes
// without decoding), and is cached
// thereafter: unlike the original engine, SoftwareDecoder has no
// reduced-resolution decode path to pick between per preview tier, so
// caching a single full-resolution decode serves every tier without
// repeating the demosaic.
type Session struct {
	mu          sync.Mutex
	raw         []byte
	decodedImg  *rawio.Image
	orientation transform.Orientation
	decoded     bool

	maskCache *maskCacheEntry
}

var (
	sessions   sync.Map // int64 -> *Session
	nextHandle atomic.Int64
)

// CreateSession registers raw as a new session and returns its handle.
// raw is copied, so the caller's buffer may be reused or released
// immediately after this call returns.
func CreateSession(raw []byte) (int64, error) {
	if len(raw) == 0 {
		return 0, xerrors.New(xerrors.InvalidPayload, "create_session: empty RAW bytes")
	}
	cp := make([]byte, len(raw))
	copy(cp, raw)
	handle := nextHandle.Add(1)
	sessions.Store(handle, &Session{raw: cp})
	return handle, nil
}

// ReleaseSession drops a session, freeing its cached decode. Reports
// whether the handle was known.
func ReleaseSession(handle int64) bool {
	_, existed := sessions.LoadAndDelete(handle)
	return existed
}

func getSession(handle int64) (*Session, error) {
	v, ok := sessions.Load(handle)
	if !ok {
		return nil, xerrors.New(xerrors.InvalidPayload, "unknown session handle")
	}
	return v.(*Session), nil
}

// decode returns the session's cached decoded image, decoding on first
// use with q. Subsequent calls (even with a different q) return the
// cached result.
func (s *Session) decode(q rawio.Quality) (*rawio.Image, transform.Orientation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.decoded {
		return s.decodedImg, s.orientation, nil
	}
	var dec rawio.SoftwareDecoder
	img, orientation, err := dec.Decode(s.raw, q)
	if err != nil {
		return nil, transform.OrientationUnknown, err
	}
	s.decodedImg, s.orientation, s.decoded = img, orientation, true
	return img, orientation, nil
}

// maskRuntimesFor returns this session's cached whole-image mask
// runtimes for maskKey at (width, height), calling build to rasterize
// and cache them if the key or output dimensions changed since the last
// call. Mirrors the original engine's per-kind masks_for cache,
// collapsed to a single slot since every Kind in this engine renders
// against the same cached full decode and so always shares one output
// resolution per session.
func (s *Session) maskRuntimesFor(maskKey string, width, height int, build func() []mask.Runtime) []mask.Runtime {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c := s.maskCache; c != nil && c.key == maskKey && c.width == width && c.height == height {
		return c.runtimes
	}
	runtimes := build()
	s.maskCache = &maskCacheEntry{key: maskKey, width: width, height: height, runtimes: runtimes}
	return runtimes
}
