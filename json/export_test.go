package json

import "time"

// SetNow overrides the clock used to stamp saved tokens.
func (f *TokenFile) SetNow(now func() time.Time) { f.now = now }
