package models

import (
	"fmt"

	"github.com/rs/zerolog"
)

// redacted replaces secrets in diagnostic output.
const redacted = "********"

// String renders the snapshot on one line for diagnostics. The password is
// never included, only whether one is stored.
func (s *Snapshot) String() string {
	if s == nil {
		return "Snapshot<nil>"
	}
	return fmt.Sprintf(
		"Snapshot[login=%s, password=%s, proxy=%s, hostname=%s, computeMethod=%s, gpu=%s, renderbucket-size=%s, "+
			"cores=%s, ram=%s, rendertime=%s, cacheDir=%s, ui=%s, theme=%s, priority=%d, autosign=%s, usetray=%s]",
		optionalString(s.Login),
		maskSecret(s.Password),
		maskSecret(s.Proxy),
		optionalString(s.Hostname),
		optionalString(s.ComputeMethod),
		optionalString(s.GPUID),
		optionalInt(s.RenderBucketSize),
		optionalInt(s.Cores),
		optionalString(s.RAM),
		optionalInt(s.RenderTime),
		optionalString(s.CacheDir),
		optionalString(s.UI),
		optionalString(s.Theme),
		s.Priority,
		optionalBool(s.AutoSignIn),
		optionalBool(s.UseSysTray),
	)
}

// MarshalZerologObject lets a snapshot be logged with Object(). Only present
// fields are emitted and secrets are masked.
func (s *Snapshot) MarshalZerologObject(e *zerolog.Event) {
	if s == nil {
		return
	}
	addString(e, "login", s.Login)
	if s.Password != nil {
		e.Str("password", redacted)
	}
	if s.Proxy != nil {
		e.Str("proxy", redacted)
	}
	addString(e, "hostname", s.Hostname)
	addString(e, "compute_method", s.ComputeMethod)
	addString(e, "gpu", s.GPUID)
	addInt(e, "renderbucket_size", s.RenderBucketSize)
	addInt(e, "cores", s.Cores)
	addString(e, "ram", s.RAM)
	addInt(e, "rendertime", s.RenderTime)
	addString(e, "cache_dir", s.CacheDir)
	addString(e, "ui", s.UI)
	addString(e, "theme", s.Theme)
	e.Int("priority", s.Priority)
	if s.AutoSignIn != nil {
		e.Bool("auto_signin", *s.AutoSignIn)
	}
	if s.UseSysTray != nil {
		e.Bool("use_systray", *s.UseSysTray)
	}
	if len(s.Extra) > 0 {
		e.Int("unknown_keys", len(s.Extra))
	}
}

// maskSecret hides a stored secret. Proxy URLs may carry credentials.
func maskSecret(v *string) string {
	if v == nil {
		return "(not set)"
	}
	return redacted
}

func addString(e *zerolog.Event, key string, v *string) {
	if v != nil {
		e.Str(key, *v)
	}
}

func addInt(e *zerolog.Event, key string, v *int) {
	if v != nil {
		e.Int(key, *v)
	}
}
