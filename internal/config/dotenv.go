package config

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// envLine is one KEY=VALUE assignment of a dotenv file.
type envLine struct {
	key, value string
}

// parseDotEnv reads KEY=VALUE lines. Blank lines, # comments and an
// "export " prefix are accepted. Double-quoted values are unquoted with Go
// escapes, single-quoted values are taken literally, and unquoted values end
// at " #".
func parseDotEnv(r io.Reader) ([]envLine, error) {
	var out []envLine
	sc := bufio.NewScanner(r)
	for n := 1; sc.Scan(); n++ {
		line := strings.TrimSpace(sc.Text())
		if line == "" || line[0] == '#' {
			continue
		}
		line = strings.TrimSpace(strings.TrimPrefix(line, "export "))

		key, raw, ok := strings.Cut(line, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" || strings.ContainsAny(key, " \t") {
			return nil, fmt.Errorf("line %d: expected KEY=VALUE", n)
		}

		value, err := dotEnvValue(strings.TrimSpace(raw))
		if err != nil {
			return nil, fmt.Errorf("line %d: %s: %w", n, key, err)
		}
		out = append(out, envLine{key: key, value: value})
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func dotEnvValue(raw string) (string, error) {
	if raw == "" {
		return "", nil
	}
	switch raw[0] {
	case '"':
		end := strings.LastIndexByte(raw, '"')
		if end == 0 {
			return "", errors.New("unterminated double quote")
		}
		return strconv.Unquote(raw[:end+1])
	case '\'':
		end := strings.LastIndexByte(raw, '\'')
		if end == 0 {
			return "", errors.New("unterminated single quote")
		}
		return raw[1:end], nil
	}
	if i := strings.Index(raw, " #"); i >= 0 {
		raw = raw[:i]
	}
	return strings.TrimSpace(raw), nil
}

// loadDotEnv sets the variables of a dotenv file that are not already in
// the environment and returns their names. A missing file is not an error.
func loadDotEnv(path string) ([]string, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	lines, err := parseDotEnv(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	var set []string
	for _, l := range lines {
		if _, exists := os.LookupEnv(l.key); exists {
			continue
		}
		if err := os.Setenv(l.key, l.value); err != nil {
			return set, fmt.Errorf("set %s: %w", l.key, err)
		}
		set = append(set, l.key)
	}
	return set, nil
}
