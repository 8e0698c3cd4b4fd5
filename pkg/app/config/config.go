// Package config provides a go-simpler.org/env configuration table and helpers
// for working with the key/value lists stored in .env files.
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"go-simpler.org/env"

	"lantern.dev/pkg/utils/apputil"
	"lantern.dev/pkg/utils/chk"
	env2 "lantern.dev/pkg/utils/env"
	"lantern.dev/pkg/utils/log"
	"lantern.dev/pkg/utils/lol"
	"lantern.dev/pkg/version"
)

// C holds application configuration settings loaded from environment variables
// and default values: network listeners, storage locations, logging, protocol
// caps and admission lists.
type C struct {
	AppName    string `env:"LANTERN_APP_NAME" default:"lantern"`
	Config     string `env:"LANTERN_CONFIG_DIR" usage:"location for the configuration file, named '.env', a standard KEY=value<newline>... environment file" default:"~/.config/lantern"`
	DataDir    string `env:"LANTERN_DATA_DIR" usage:"storage location for the event store" default:"~/.local/cache/lantern"`
	Listen     string `env:"LANTERN_LISTEN" default:"0.0.0.0" usage:"network listen address"`
	Port       int    `env:"LANTERN_PORT" default:"3334" usage:"port to listen on"`
	LogLevel   string `env:"LANTERN_LOG_LEVEL" default:"info" usage:"log level: fatal error warn info debug trace"`
	DbLogLevel string `env:"LANTERN_DB_LOG_LEVEL" default:"info" usage:"database log level: fatal error warn info debug trace"`

	// URLs are the addresses clients reach the relay at; the NIP-42 relay
	// tag must match one of their hosts.
	URLs []string `env:"LANTERN_URLS" usage:"canonical websocket URLs of this relay, used to validate NIP-42 auth events (comma separated)"`

	// Identity published in the NIP-11 information document.
	Name        string `env:"LANTERN_NAME" usage:"relay name published in the information document"`
	Description string `env:"LANTERN_DESCRIPTION" usage:"relay description published in the information document"`
	Contact     string `env:"LANTERN_CONTACT" usage:"administrative contact published in the information document"`
	RelayPubkey string `env:"LANTERN_RELAY_PUBKEY" usage:"relay operator pubkey published in the information document (hex)"`
	Icon        string `env:"LANTERN_ICON" usage:"icon URL published in the information document"`

	// Event admission caps.
	MaxContentLength  int           `env:"LANTERN_MAX_CONTENT_LENGTH" default:"65536" usage:"maximum length of an event content field in bytes, 0 disables"`
	MaxEventTags      int           `env:"LANTERN_MAX_EVENT_TAGS" default:"2000" usage:"maximum number of tags on an event, 0 disables"`
	MaxTagValueLength int           `env:"LANTERN_MAX_TAG_VALUE_LENGTH" default:"1024" usage:"maximum length of a single tag field in bytes, 0 disables"`
	MaxMessageLength  int           `env:"LANTERN_MAX_MESSAGE_LENGTH" default:"1048576" usage:"maximum websocket message length in bytes"`
	MaxFutureSeconds  int64         `env:"LANTERN_MAX_FUTURE_SECONDS" default:"900" usage:"how far in the future an event created_at may be"`
	MaxPastSeconds    int64         `env:"LANTERN_MAX_PAST_SECONDS" default:"0" usage:"how far in the past an event created_at may be, 0 disables"`
	AuthRequired      bool          `env:"LANTERN_AUTH_REQUIRED" default:"false" usage:"require NIP-42 authentication before accepting any verb"`
	MaxAuthAge        time.Duration `env:"LANTERN_MAX_AUTH_AGE" default:"10m" usage:"how far an auth event created_at may sit from now"`

	// Subscription caps.
	MaxSubscriptions int  `env:"LANTERN_MAX_SUBSCRIPTIONS" default:"32" usage:"maximum concurrent subscriptions per connection"`
	MaxFilters       int  `env:"LANTERN_MAX_FILTERS" default:"16" usage:"maximum filters per REQ"`
	MaxLimit         uint `env:"LANTERN_MAX_LIMIT" default:"512" usage:"cap applied to filter limit values"`
	MaxSubidLength   int  `env:"LANTERN_MAX_SUBID_LENGTH" default:"64" usage:"maximum subscription id length in bytes"`

	// Admission lists, hex pubkeys and decimal kind numbers.
	AllowPubkeys []string `env:"LANTERN_ALLOW_PUBKEYS" usage:"when non-empty, only these pubkeys may publish (comma separated hex)"`
	BlockPubkeys []string `env:"LANTERN_BLOCK_PUBKEYS" usage:"pubkeys refused for publishing (comma separated hex)"`
	AllowKinds   []int    `env:"LANTERN_ALLOW_KINDS" usage:"when non-empty, only these kinds are accepted (comma separated)"`
	BlockKinds   []int    `env:"LANTERN_BLOCK_KINDS" usage:"kinds refused (comma separated)"`
	AdminPubkeys []string `env:"LANTERN_ADMINS" usage:"pubkeys permitted to call the management API (comma separated hex)"`

	// Flow control.
	WriteQueueHighWater int `env:"LANTERN_WRITE_QUEUE_HIGH_WATER" default:"2048" usage:"outbound frames queued per connection before it is dropped"`
	MaxInboundPerSec    int `env:"LANTERN_MAX_INBOUND_PER_SEC" default:"50" usage:"inbound messages per second per address before throttling, 0 disables"`

	// Negentropy session caps.
	NegMaxSessions    int           `env:"LANTERN_NEG_MAX_SESSIONS" default:"8" usage:"maximum concurrent negentropy sessions per connection"`
	NegSessionTimeout time.Duration `env:"LANTERN_NEG_SESSION_TIMEOUT" default:"60s" usage:"idle timeout after which a negentropy session is reaped"`
}

// New creates a configuration, loading first from the process environment,
// then from a .env file in the config directory if one exists. Values in the
// file fill in what the environment left unset.
func New() (cfg *C, err error) {
	cfg = &C{}
	if err = env.Load(cfg, &env.Options{SliceSep: ","}); chk.T(err) {
		return
	}
	if cfg.Config == "" || strings.Contains(cfg.Config, "~") {
		cfg.Config = filepath.Join(xdg.ConfigHome, cfg.AppName)
	}
	if cfg.DataDir == "" || strings.Contains(cfg.DataDir, "~") {
		cfg.DataDir = filepath.Join(xdg.DataHome, cfg.AppName)
	}
	envPath := filepath.Join(cfg.Config, ".env")
	if apputil.FileExists(envPath) {
		var e env2.Env
		if e, err = env2.GetEnv(envPath); chk.T(err) {
			return
		}
		if err = env.Load(
			cfg, &env.Options{SliceSep: ",", Source: e},
		); chk.E(err) {
			return
		}
		lol.SetLogLevel(cfg.LogLevel)
		log.I.F("loaded configuration from %s", envPath)
	}
	// an empty env list still yields a single empty string element
	cfg.URLs = compact(cfg.URLs)
	cfg.AllowPubkeys = compact(cfg.AllowPubkeys)
	cfg.BlockPubkeys = compact(cfg.BlockPubkeys)
	cfg.AdminPubkeys = compact(cfg.AdminPubkeys)
	return
}

func compact(in []string) (out []string) {
	for _, s := range in {
		if s == "" {
			continue
		}
		out = append(out, s)
	}
	return
}

// HelpRequested reports whether the first command line argument asks for the
// usage text.
func HelpRequested() (help bool) {
	if len(os.Args) > 1 {
		switch strings.ToLower(os.Args[1]) {
		case "help", "-h", "--h", "-help", "--help", "?":
			help = true
		}
	}
	return
}

// GetEnv reports whether the first command line argument is "env", requesting
// the current configuration printed in .env form.
func GetEnv() (requested bool) {
	if len(os.Args) > 1 {
		switch strings.ToLower(os.Args[1]) {
		case "env":
			requested = true
		}
	}
	return
}

// KV is a key/value pair.
type KV struct{ Key, Value string }

// KVSlice is a sortable slice of key/value pairs.
type KVSlice []KV

func (kv KVSlice) Len() int           { return len(kv) }
func (kv KVSlice) Less(i, j int) bool { return kv[i].Key < kv[j].Key }
func (kv KVSlice) Swap(i, j int)      { kv[i], kv[j] = kv[j], kv[i] }

// Compose merges two KVSlice instances; keys in kv2 override duplicates in
// the receiver.
func (kv KVSlice) Compose(kv2 KVSlice) (out KVSlice) {
	out = append(out, kv...)
out:
	for i, p := range kv2 {
		for j, q := range out {
			if p.Key == q.Key {
				out[j].Value = kv2[i].Value
				continue out
			}
		}
		out = append(out, p)
	}
	return
}

// EnvKV renders a configuration struct's fields as key/value pairs keyed by
// their env tags. Fields without an env tag are skipped.
func EnvKV(cfg any) (m KVSlice) {
	t := reflect.TypeOf(cfg)
	for i := 0; i < t.NumField(); i++ {
		k := t.Field(i).Tag.Get("env")
		if k == "" {
			continue
		}
		v := reflect.ValueOf(cfg).Field(i).Interface()
		var val string
		switch vv := v.(type) {
		case string:
			val = vv
		case int, int64, uint, bool, time.Duration:
			val = fmt.Sprint(vv)
		case []string:
			val = strings.Join(vv, ",")
		case []int:
			var parts []string
			for _, n := range vv {
				parts = append(parts, fmt.Sprint(n))
			}
			val = strings.Join(parts, ",")
		}
		m = append(m, KV{k, val})
	}
	return
}

// PrintEnv writes the configuration as sorted KEY=value lines.
func PrintEnv(cfg *C, printer io.Writer) {
	kvs := EnvKV(*cfg)
	sort.Sort(kvs)
	for _, v := range kvs {
		_, _ = fmt.Fprintf(printer, "%s=%s\n", v.Key, v.Value)
	}
}

// PrintHelp writes the usage text: version, the environment variable table,
// .env file handling, and the current configuration.
func PrintHelp(cfg *C, printer io.Writer) {
	_, _ = fmt.Fprintf(printer, "%s %s\n\n", cfg.AppName, version.V)
	_, _ = fmt.Fprintf(
		printer,
		"Environment variables that configure %s:\n\n", cfg.AppName,
	)
	env.Usage(cfg, printer, &env.Options{SliceSep: ","})
	_, _ = fmt.Fprintf(
		printer,
		"\nCLI parameter 'help' also prints this information\n"+
			"\n.env file found at the path %s will be automatically "+
			"loaded for configuration.\nenvironment overrides it and "+
			"you can also edit the file to set configuration options\n\n"+
			"use the parameter 'env' to print out the current configuration to the terminal\n\n"+
			"set the environment using\n\n\t%s env > %s/.env\n",
		cfg.Config,
		os.Args[0],
		cfg.Config,
	)
	_, _ = fmt.Fprintf(printer, "\ncurrent configuration:\n\n")
	PrintEnv(cfg, printer)
	fmt.Fprintln(printer)
}
