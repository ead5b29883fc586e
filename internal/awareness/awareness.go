// Package awareness serves the static phishing-awareness content: the quiz
// bank, the recent threat feed and the safety guide.
package awareness

import (
	"embed"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed content/*.yaml
var content embed.FS

// Question is one multiple-choice quiz item. Answer indexes Options.
type Question struct {
	ID          int      `yaml:"id" json:"id"`
	Question    string   `yaml:"question" json:"question"`
	Options     []string `yaml:"options" json:"options"`
	Answer      int      `yaml:"answer" json:"correctAnswer"`
	Explanation string   `yaml:"explanation" json:"explanation"`
}

// Threat is a recently observed phishing domain.
type Threat struct {
	Domain     string    `yaml:"domain" json:"domain"`
	Type       string    `yaml:"type" json:"type"`
	DetectedAt time.Time `yaml:"detected_at" json:"detectedAt"`
	Status     string    `yaml:"status" json:"status"`
}

// GuideSection groups related safety tips under a title.
type GuideSection struct {
	Title string   `yaml:"title" json:"title"`
	Tips  []string `yaml:"tips" json:"tips"`
}

// Questions returns the full quiz bank in its stored order.
func Questions() ([]Question, error) {
	var qs []Question
	if err := decode("quiz.yaml", &qs); err != nil {
		return nil, err
	}
	for _, q := range qs {
		if q.Answer < 0 || q.Answer >= len(q.Options) {
			return nil, fmt.Errorf("quiz question %d: answer %d out of range", q.ID, q.Answer)
		}
	}
	return qs, nil
}

// Threats returns the recent threat feed.
func Threats() ([]Threat, error) {
	var ts []Threat
	if err := decode("threats.yaml", &ts); err != nil {
		return nil, err
	}
	return ts, nil
}

// Guide returns the safety guide sections.
func Guide() ([]GuideSection, error) {
	var gs []GuideSection
	if err := decode("guide.yaml", &gs); err != nil {
		return nil, err
	}
	return gs, nil
}

func decode(name string, v any) error {
	b, err := content.ReadFile("content/" + name)
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	if err := yaml.Unmarshal(b, v); err != nil {
		return fmt.Errorf("parse %s: %w", name, err)
	}
	return nil
}
