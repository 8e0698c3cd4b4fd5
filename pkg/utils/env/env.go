// Package env reads simple KEY=value .env files as a configuration source
// for go-simpler.org/env.
package env

import (
	"bufio"
	"os"
	"strings"

	"lantern.dev/pkg/utils/chk"
)

// Env is a set of environment key/value pairs loaded from a file. It
// implements the go-simpler.org/env Source interface.
type Env map[string]string

// LookupEnv returns the value of a key and whether it was present.
func (e Env) LookupEnv(key string) (value string, ok bool) {
	value, ok = e[key]
	return
}

// GetEnv parses a .env file: one KEY=value per line, # comments, blank
// lines ignored, optional surrounding quotes on values.
func GetEnv(path string) (e Env, err error) {
	var f *os.File
	if f, err = os.Open(path); chk.E(err) {
		return
	}
	defer f.Close()
	e = Env{}
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		k, v, found := strings.Cut(line, "=")
		if !found {
			continue
		}
		v = strings.TrimSpace(v)
		v = strings.Trim(v, `"'`)
		e[strings.TrimSpace(k)] = v
	}
	err = scanner.Err()
	chk.E(err)
	return
}
