package config

// DefaultSkillVocabulary is the closed list of skill keywords matched against
// resume text. Entries must be lowercase.
var DefaultSkillVocabulary = []string{
	"python",
	"fastapi",
	"django",
	"flask",
	"react",
	"next.js",
	"node",
	"aws",
	"postgresql",
	"docker",
	"kubernetes",
}

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Embedding.Dimensions == 0 {
		cfg.Embedding.Dimensions = 32
	}
	if cfg.Embedding.MaxTokens == 0 {
		cfg.Embedding.MaxTokens = 256
	}
	if cfg.Embedding.CacheSize == 0 {
		cfg.Embedding.CacheSize = 10000
	}
	if cfg.Matching.PrefilterTopK == 0 {
		cfg.Matching.PrefilterTopK = 10
	}
	if cfg.Matching.TopMatches == 0 {
		cfg.Matching.TopMatches = 5
	}
	if cfg.Matching.SkillWeight == 0 && cfg.Matching.ExperienceWeight == 0 && cfg.Matching.SemanticWeight == 0 {
		cfg.Matching.SkillWeight = 0.5
		cfg.Matching.ExperienceWeight = 0.3
		cfg.Matching.SemanticWeight = 0.2
	}
	if cfg.Matching.SkillVocabulary == nil {
		cfg.Matching.SkillVocabulary = append([]string(nil), DefaultSkillVocabulary...)
	}
	if cfg.Watch.Extensions == nil {
		cfg.Watch.Extensions = []string{".txt", ".md", ".pdf", ".docx"}
	}
	if len(cfg.Watch.Directories) > 0 && cfg.Watch.Recursive == nil {
		t := true
		cfg.Watch.Recursive = &t
	}
}
