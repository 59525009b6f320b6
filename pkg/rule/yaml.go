package rule

// yamlRule is the intermediate struct for parsing the YAML rule format.
type yamlRule struct {
	Name             string   `yaml:"name"`
	ID               string   `yaml:"id"`
	Pattern          string   `yaml:"pattern"`
	Category         string   `yaml:"category"`
	Description      string   `yaml:"description,omitempty"`
	Keywords         []string `yaml:"keywords,omitempty"`
	Examples         []string `yaml:"examples,omitempty"`
	NegativeExamples []string `yaml:"negative_examples,omitempty"`
	Allowlist        []string `yaml:"allowlist,omitempty"`
	References       []string `yaml:"references,omitempty"`
}

// yamlRulesFile is the top-level structure of a rules YAML file: a "rules"
// array.
type yamlRulesFile struct {
	Rules []yamlRule `yaml:"rules"`
}

// yamlPlaceholdersFile is the top-level structure of a placeholder
// allow-list YAML file.
type yamlPlaceholdersFile struct {
	Placeholders []string `yaml:"placeholders"`
}
