package repo

import (
	"fmt"
	"maps"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/vbncursed/vkr/wallet-service/internal/models"
)

// Seed — YAML-файл с настройками, вложениями и участниками.
//
//	settings:
//	  org_name: Acme
//	  p12_attachment_id: 1
//	attachments:
//	  1: /etc/wallet/pass.p12
//	members:
//	  - id: 42
//	    display_name: Jane Doe
//	    login: jdoe
//	    attributes: {member_number: "0042"}
type Seed struct {
	Settings    map[string]string `yaml:"settings"`
	Attachments map[int64]string  `yaml:"attachments"`
	Members     []SeedMember      `yaml:"members"`
}

type SeedMember struct {
	ID          int64             `yaml:"id"`
	DisplayName string            `yaml:"display_name"`
	Login       string            `yaml:"login"`
	Attributes  map[string]string `yaml:"attributes"`
}

// LoadSeed читает и разбирает seed-файл
func LoadSeed(path string) (*Seed, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed: %w", err)
	}
	return ParseSeed(b)
}

// ParseSeed разбирает YAML; id участников обязаны быть положительными и уникальными
func ParseSeed(data []byte) (*Seed, error) {
	var s Seed
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse seed: %w", err)
	}
	seen := make(map[int64]bool, len(s.Members))
	for _, m := range s.Members {
		if m.ID <= 0 {
			return nil, fmt.Errorf("parse seed: member id must be positive, got %d", m.ID)
		}
		if seen[m.ID] {
			return nil, fmt.Errorf("parse seed: duplicate member id %d", m.ID)
		}
		seen[m.ID] = true
	}
	return &s, nil
}

// Identities — участники в виде доменной модели
func (s *Seed) Identities() []models.MemberIdentity {
	out := make([]models.MemberIdentity, 0, len(s.Members))
	for _, m := range s.Members {
		out = append(out, models.MemberIdentity{
			ID:          m.ID,
			DisplayName: m.DisplayName,
			LoginHandle: m.Login,
			Attributes:  models.Attributes(maps.Clone(m.Attributes)),
		})
	}
	return out
}
