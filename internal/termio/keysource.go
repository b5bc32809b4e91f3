package termio

import (
	"io"
	"time"
)

// KeySource is the key-event-source contract the Event Loop (spec.md §4.6)
// polls against. Poll blocks for up to timeout waiting for the next key;
// ok is false on timeout. Poll returning an error means the source is
// closed/broken and the loop should treat it as fatal to the session.
type KeySource interface {
	Poll(timeout time.Duration) (key Key, ok bool, err error)
}

// NewKeySource starts a dedicated reader goroutine over r (normally an
// *os.File already switched to raw mode by a Terminal) and returns a
// KeySource whose Poll honors spec.md §5's single blocking point: "the only
// blocking point is the key-poll with a 120ms timeout." The reader goroutine
// is the one asynchronous producer besides the filesystem watcher; it never
// touches Navigation State directly, only this channel.
func NewKeySource(r io.Reader) KeySource {
	ks := &channelKeySource{
		keys: make(chan Key, 64),
		errs: make(chan error, 1),
	}
	go ks.run(r)
	return ks
}

type channelKeySource struct {
	keys chan Key
	errs chan error
}

func (ks *channelKeySource) run(r io.Reader) {
	var dec decoder
	buf := make([]byte, 1024)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			for _, k := range dec.feed(buf[:n]) {
				ks.keys <- k
			}
		}
		if err != nil {
			ks.errs <- err
			return
		}
	}
}

func (ks *channelKeySource) Poll(timeout time.Duration) (Key, bool, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case k := <-ks.keys:
		return k, true, nil
	case err := <-ks.errs:
		return Key{}, false, err
	case <-timer.C:
		return Key{}, false, nil
	}
}
