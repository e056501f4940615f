package loader

import (
	"bytes"
	"errors"
	"io"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

var yamlLine = regexp.MustCompile(`line (\d+)`)

// DecodeYAML decodes YAML data into v. Empty input leaves v untouched.
func DecodeYAML(source string, data []byte, v any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	err := dec.Decode(v)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}

	perr := &ParseError{Path: source, Message: err.Error(), Err: err}
	var terr *yaml.TypeError
	if errors.As(err, &terr) && len(terr.Errors) > 0 {
		perr.Message = strings.Join(terr.Errors, "; ")
	}
	if m := yamlLine.FindStringSubmatch(perr.Message); m != nil {
		perr.Line, _ = strconv.Atoi(m[1])
	}
	return perr
}
