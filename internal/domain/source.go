package domain

import "fmt"

type Source string

const (
	SourceSteam     Source = "steam"
	SourceXbl       Source = "xbl"
	SourceMinecraft Source = "minecraft"
)

var Sources = []Source{SourceSteam, SourceXbl, SourceMinecraft}

func ParseSource(raw string) (Source, error) {
	for _, source := range Sources {
		if string(source) == raw {
			return source, nil
		}
	}
	return "", fmt.Errorf("%w: unknown source '%s'", ErrInvalidParams, raw)
}
