package store

import (
	"sort"
	"strconv"
	"strings"

	"github.com/magiconair/properties"

	"github.com/stwalsh4118/sheepit-settings/internal/logger"
	"github.com/stwalsh4118/sheepit-settings/internal/models"
)

// loader parses settings files. Expansion is off so values containing ${...}
// are kept verbatim.
var loader = &properties.Loader{
	Encoding:         properties.UTF8,
	DisableExpansion: true,
}

// parse reads properties from data. When the file is malformed the entries
// on logical lines before the first bad one are returned.
func parse(path string, data []byte) *properties.Properties {
	props, err := loader.LoadBytes(data)
	if err == nil {
		return props
	}

	logger.Log.Error().
		Err(err).
		Str("path", path).
		Msg("Settings file is malformed, keeping entries read before the error")

	partial := newProperties()
	for _, line := range logicalLines(string(data)) {
		lineProps, err := loader.LoadBytes([]byte(line))
		if err != nil {
			break
		}
		for _, key := range lineProps.Keys() {
			value, _ := lineProps.Get(key)
			partial.MustSet(key, value)
		}
	}
	return partial
}

// logicalLines splits properties text into logical lines, joining lines that
// end in an odd number of backslashes with their continuation.
func logicalLines(text string) []string {
	var (
		lines   []string
		current strings.Builder
	)
	for _, line := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		current.WriteString(line)
		if trailingBackslashes(line)%2 == 1 {
			current.WriteString("\n")
			continue
		}
		lines = append(lines, current.String())
		current.Reset()
	}
	if current.Len() > 0 {
		lines = append(lines, current.String())
	}
	return lines
}

func trailingBackslashes(line string) int {
	n := 0
	for i := len(line) - 1; i >= 0 && line[i] == '\\'; i-- {
		n++
	}
	return n
}

// decode maps file entries onto a snapshot. Values that fail to parse are
// logged and left absent.
func decode(props *properties.Properties) *models.Snapshot {
	snap := models.NewSnapshot()

	snap.CacheDir = getString(props, keyCacheDir)
	snap.ComputeMethod = getString(props, keyComputeMethod)
	snap.GPUID = getString(props, keyComputeGPU)
	snap.RenderBucketSize = getBucketSize(props)
	snap.RAM = getString(props, keyRAM)
	snap.RenderTime = getInt(props, keyRenderTime)
	snap.Login = getString(props, keyLogin)
	snap.Password = getString(props, keyPassword)
	snap.Proxy = getString(props, keyProxy)
	snap.Hostname = getString(props, keyHostname)
	snap.AutoSignIn = getBool(props, keyAutoSignIn)
	snap.UseSysTray = getBool(props, keyUseSysTray)
	snap.UI = getString(props, keyUI)
	snap.Theme = getString(props, keyTheme)

	// cpu-cores is the pre-rename key; cores wins when both are usable
	snap.Cores = getInt(props, keyLegacyCores)
	if cores := getInt(props, keyCores); cores != nil {
		snap.Cores = cores
	}

	if priority := getInt(props, keyPriority); priority != nil {
		snap.Priority = *priority
	}

	for _, key := range props.Keys() {
		if knownKeys[key] {
			continue
		}
		if snap.Extra == nil {
			snap.Extra = make(map[string]string)
		}
		snap.Extra[key], _ = props.Get(key)
		logger.Log.Debug().
			Str("key", key).
			Msg("Keeping unrecognized settings key")
	}

	return snap
}

// encode renders every present field. Absent fields are omitted.
func encode(snap *models.Snapshot) *properties.Properties {
	props := newProperties()

	props.MustSet(keyPriority, strconv.Itoa(snap.Priority))
	setString(props, keyCacheDir, snap.CacheDir)
	setString(props, keyComputeMethod, snap.ComputeMethod)
	setString(props, keyComputeGPU, snap.GPUID)
	setInt(props, keyRenderBucketSize, snap.RenderBucketSize)
	setInt(props, keyCores, snap.Cores)
	setString(props, keyRAM, snap.RAM)
	setInt(props, keyRenderTime, snap.RenderTime)
	setString(props, keyLogin, snap.Login)
	setString(props, keyPassword, snap.Password)
	setString(props, keyProxy, snap.Proxy)
	setString(props, keyHostname, snap.Hostname)
	setBool(props, keyAutoSignIn, snap.AutoSignIn)
	setBool(props, keyUseSysTray, snap.UseSysTray)
	setString(props, keyUI, snap.UI)
	setString(props, keyTheme, snap.Theme)

	extra := make([]string, 0, len(snap.Extra))
	for key := range snap.Extra {
		if !knownKeys[key] {
			extra = append(extra, key)
		}
	}
	sort.Strings(extra)
	for _, key := range extra {
		props.MustSet(key, snap.Extra[key])
	}

	return props
}

func newProperties() *properties.Properties {
	props := properties.NewProperties()
	props.DisableExpansion = true
	return props
}

func getString(props *properties.Properties, key string) *string {
	value, ok := props.Get(key)
	if !ok {
		return nil
	}
	return &value
}

func getInt(props *properties.Properties, key string) *int {
	raw, ok := props.Get(key)
	if !ok {
		return nil
	}
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		logger.Log.Warn().
			Err(err).
			Str("key", key).
			Str("value", raw).
			Msg("Ignoring non-numeric settings value")
		return nil
	}
	return &value
}

func getBool(props *properties.Properties, key string) *bool {
	raw, ok := props.Get(key)
	if !ok {
		return nil
	}
	value, err := strconv.ParseBool(strings.TrimSpace(raw))
	if err != nil {
		logger.Log.Warn().
			Err(err).
			Str("key", key).
			Str("value", raw).
			Msg("Ignoring non-boolean settings value")
		return nil
	}
	return &value
}

func getBucketSize(props *properties.Properties) *int {
	size := getInt(props, keyRenderBucketSize)
	if size == nil {
		return nil
	}
	if *size < models.MinRenderBucketSize {
		logger.Log.Warn().
			Int("value", *size).
			Int("minimum", models.MinRenderBucketSize).
			Msg("Ignoring render bucket size below minimum")
		return nil
	}
	return size
}

func setString(props *properties.Properties, key string, value *string) {
	if value != nil {
		props.MustSet(key, *value)
	}
}

func setInt(props *properties.Properties, key string, value *int) {
	if value != nil {
		props.MustSet(key, strconv.Itoa(*value))
	}
}

func setBool(props *properties.Properties, key string, value *bool) {
	if value != nil {
		props.MustSet(key, strconv.FormatBool(*value))
	}
}
