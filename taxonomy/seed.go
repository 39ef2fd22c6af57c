package taxonomy

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// SeedSubcategory is a subcategory of the bootstrap taxonomy.
type SeedSubcategory struct {
	Name string `yaml:"name"`
	ID   string `yaml:"id,omitempty"`
}

// SeedCategory is a major category of the bootstrap taxonomy.
type SeedCategory struct {
	Name          string            `yaml:"name"`
	ID            string            `yaml:"id,omitempty"`
	Subcategories []SeedSubcategory `yaml:"subcategories,omitempty"`
}

// Seed lists the categories a fresh taxonomy starts with. IDs are the
// shopping provider's category identifiers and are informational only.
type Seed []SeedCategory

// DefaultSeed returns the built-in shopping taxonomy.
func DefaultSeed() Seed {
	return Seed{
		{Name: "패션의류", ID: "50000000", Subcategories: []SeedSubcategory{
			{Name: "여성의류", ID: "50000001"},
			{Name: "남성의류", ID: "50000002"},
			{Name: "언더웨어", ID: "50000003"},
			{Name: "캐주얼의류", ID: "50000006"},
		}},
		{Name: "패션잡화", ID: "50000001", Subcategories: []SeedSubcategory{
			{Name: "여성가방", ID: "50000007"},
			{Name: "남성가방", ID: "50000008"},
			{Name: "지갑", ID: "50000009"},
			{Name: "패션소품", ID: "50000010"},
		}},
		{Name: "화장품/미용", ID: "50000002", Subcategories: []SeedSubcategory{
			{Name: "스킨케어", ID: "50000011"},
			{Name: "메이크업", ID: "50000012"},
			{Name: "향수", ID: "50000013"},
			{Name: "남성화장품", ID: "50000015"},
			{Name: "네일", ID: "50000016"},
			{Name: "뷰티소품", ID: "50000017"},
		}},
		{Name: "디지털/가전", ID: "50000003"},
		{Name: "식품", ID: "50000006", Subcategories: []SeedSubcategory{
			{Name: "농수축산물", ID: "50000029"},
			{Name: "가공식품", ID: "50000030"},
			{Name: "건강식품", ID: "50000031"},
		}},
		{Name: "스포츠/레저", ID: "50000007"},
		{Name: "여가/생활편의", ID: "50000009"},
		{Name: "생활/건강", ID: "50000010", Subcategories: []SeedSubcategory{
			{Name: "생활용품", ID: "50000049"},
			{Name: "건강용품", ID: "50000050"},
			{Name: "의료용품", ID: "50000051"},
			{Name: "건강식품", ID: "50000052"},
		}},
		{Name: "출산/육아", ID: "50000011", Subcategories: []SeedSubcategory{
			{Name: "기저귀", ID: "50000056"},
			{Name: "분유", ID: "50000057"},
			{Name: "이유식", ID: "50000058"},
			{Name: "유아동의류", ID: "50000059"},
		}},
	}
}

// LoadSeedYAML reads a seed taxonomy from a YAML file.
// Returns nil, nil if the file does not exist.
func LoadSeedYAML(path string) (Seed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}

	var file struct {
		Categories Seed `yaml:"categories"`
	}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse seed file: %w", err)
	}

	for i, cat := range file.Categories {
		if cat.Name == "" {
			return nil, fmt.Errorf("seed category %d has no name", i)
		}
		for j, sub := range cat.Subcategories {
			if sub.Name == "" {
				return nil, fmt.Errorf("seed subcategory %d of %q has no name", j, cat.Name)
			}
		}
	}
	return file.Categories, nil
}
