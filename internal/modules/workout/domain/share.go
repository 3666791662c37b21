package domain

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"

	apperrors "pajama/internal/platform/errors"
)

type shareWire struct {
	Title  *string  `json:"title"`
	Phases *[]Phase `json:"phases"`
}

// EncodeShareCode packs a workout's title and phases into a base64 JSON
// code that can be pasted on another device.
func EncodeShareCode(w Workout) (string, error) {
	phases := w.Phases
	if phases == nil {
		phases = []Phase{}
	}
	payload, err := json.Marshal(struct {
		Title  string  `json:"title"`
		Phases []Phase `json:"phases"`
	}{Title: w.Title, Phases: phases})
	if err != nil {
		return "", fmt.Errorf("encode share code: %w", err)
	}
	return base64.StdEncoding.EncodeToString(payload), nil
}

// DecodeShareCode reverses EncodeShareCode. Text is NFC-normalised so
// codes produced on different platforms compare equal.
func DecodeShareCode(code string) (Workout, error) {
	code = strings.TrimSpace(code)
	payload, err := base64.StdEncoding.DecodeString(code)
	if err != nil {
		payload, err = base64.RawURLEncoding.DecodeString(strings.TrimRight(code, "="))
		if err != nil {
			return Workout{}, fmt.Errorf("%w: share code is not base64", apperrors.ErrInvalidInput)
		}
	}
	var wire shareWire
	if err := json.Unmarshal(payload, &wire); err != nil {
		return Workout{}, fmt.Errorf("%w: share code is not a workout", apperrors.ErrInvalidInput)
	}
	if wire.Title == nil || wire.Phases == nil {
		return Workout{}, fmt.Errorf("%w: share code is missing title or phases", apperrors.ErrInvalidInput)
	}
	w := Workout{Title: norm.NFC.String(*wire.Title)}
	for _, p := range *wire.Phases {
		p.Name = norm.NFC.String(p.Name)
		p.Hint = norm.NFC.String(p.Hint)
		w.Phases = append(w.Phases, p)
	}
	return w, nil
}
