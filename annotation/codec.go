package annotation

import (
	"encoding/json"
	"fmt"
	"time"
)

// envelope is the wire form of an annotation in session files. The "type"
// field discriminates the variant; exactly one payload group is populated.
type envelope struct {
	Type      Kind      `json:"type"`
	ID        string    `json:"id"`
	Page      int       `json:"page"`
	Position  Position  `json:"position"`
	Size      Size      `json:"size"`
	CreatedAt time.Time `json:"createdAt"`

	Content    string        `json:"content,omitempty"`
	Format     ContentFormat `json:"format,omitempty"`
	Color      *Color        `json:"color,omitempty"`
	FontSize   float64       `json:"fontSize,omitempty"`
	FontFamily string        `json:"fontFamily,omitempty"`

	Paths []Stroke `json:"paths,omitempty"`

	Path []Position `json:"path,omitempty"`

	URL           string `json:"url,omitempty"`
	NaturalWidth  int    `json:"naturalWidth,omitempty"`
	NaturalHeight int    `json:"naturalHeight,omitempty"`
}

// Marshal encodes a single annotation into its wire form.
func Marshal(a Annotation) ([]byte, error) {
	env, err := toEnvelope(a)
	if err != nil {
		return nil, err
	}
	return json.Marshal(env)
}

// MarshalList encodes an annotation list in order.
func MarshalList(list []Annotation) ([]byte, error) {
	envs := make([]envelope, 0, len(list))
	for _, a := range list {
		env, err := toEnvelope(a)
		if err != nil {
			return nil, err
		}
		envs = append(envs, env)
	}
	return json.Marshal(envs)
}

// Unmarshal decodes a single annotation. Unknown variant tags are rejected.
func Unmarshal(data []byte) (Annotation, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, err
	}
	return fromEnvelope(env)
}

// UnmarshalList decodes an annotation list, preserving order.
func UnmarshalList(data []byte) ([]Annotation, error) {
	var envs []envelope
	if err := json.Unmarshal(data, &envs); err != nil {
		return nil, err
	}
	list := make([]Annotation, 0, len(envs))
	for _, env := range envs {
		a, err := fromEnvelope(env)
		if err != nil {
			return nil, err
		}
		list = append(list, a)
	}
	return list, nil
}

func toEnvelope(a Annotation) (envelope, error) {
	base := a.Base()
	env := envelope{
		Type:      a.Kind(),
		ID:        base.AnnotationID,
		Page:      base.PageNumber,
		Position:  base.Position,
		Size:      base.Size,
		CreatedAt: base.CreatedAt,
	}
	switch v := a.(type) {
	case *TextAnnotation:
		env.Content = v.Content
		env.Format = v.Format
		col := v.Color
		env.Color = &col
		env.FontSize = v.FontSize
		env.FontFamily = v.FontFamily
	case *DrawingAnnotation:
		env.Paths = v.Paths
	case *SignatureAnnotation:
		env.Path = v.Path
	case *ImageAnnotation:
		env.URL = v.URL
		env.NaturalWidth = v.NaturalWidth
		env.NaturalHeight = v.NaturalHeight
	default:
		return envelope{}, fmt.Errorf("annotation: cannot encode %T", a)
	}
	return env, nil
}

func fromEnvelope(env envelope) (Annotation, error) {
	base := BaseAnnotation{
		AnnotationID: env.ID,
		PageNumber:   env.Page,
		Position:     env.Position,
		Size:         env.Size,
		CreatedAt:    env.CreatedAt,
	}
	switch env.Type {
	case KindText:
		t := &TextAnnotation{
			BaseAnnotation: base,
			Content:        env.Content,
			Format:         env.Format,
			FontSize:       env.FontSize,
			FontFamily:     env.FontFamily,
		}
		if env.Color != nil {
			t.Color = *env.Color
		} else {
			t.Color = Black
		}
		if t.Format == "" {
			t.Format = FormatPlain
		}
		return t, nil
	case KindDrawing:
		return &DrawingAnnotation{BaseAnnotation: base, Paths: env.Paths}, nil
	case KindSignature:
		return &SignatureAnnotation{BaseAnnotation: base, Path: env.Path}, nil
	case KindImage:
		return &ImageAnnotation{
			BaseAnnotation: base,
			URL:            env.URL,
			NaturalWidth:   env.NaturalWidth,
			NaturalHeight:  env.NaturalHeight,
		}, nil
	}
	return nil, fmt.Errorf("annotation: unknown variant %q", env.Type)
}
