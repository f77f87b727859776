// Package skills normalizes raw skill phrases to their canonical names.
package skills

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// skillAliases maps common skill name variants to canonical names
var skillAliases = map[string]string{
	// languages
	"golang":             "Go",
	"go lang":            "Go",
	"golanglang":         "Go",
	"python":             "Python",
	"python3":            "Python",
	"python 3":           "Python",
	"py":                 "Python",
	"python programming": "Python",
	"javascript":         "JavaScript",
	"js":                 "JavaScript",
	"ecmascript":         "JavaScript",
	"typescript":         "TypeScript",
	"ts":                 "TypeScript",
	"c++":                "C++",
	"cpp":                "C++",
	"c#":                 "C#",
	"csharp":             "C#",
	"sql":                "SQL",
	"nosql":              "NoSQL",
	"html":               "HTML",
	"html5":              "HTML",
	"css":                "CSS",
	"css3":               "CSS",
	"php":                "PHP",
	"matlab":             "MATLAB",
	"r programming":      "R",

	// data and ml
	"ml":                          "Machine Learning",
	"machine learning":            "Machine Learning",
	"machinelearning":             "Machine Learning",
	"dl":                          "Deep Learning",
	"deep learning":               "Deep Learning",
	"ai":                          "Artificial Intelligence",
	"artificial intelligence":     "Artificial Intelligence",
	"nlp":                         "Natural Language Processing",
	"natural language processing": "Natural Language Processing",
	"cv":                          "Computer Vision",
	"data analytics":              "Data Analysis",
	"data analysis":               "Data Analysis",
	"sklearn":                     "Scikit-learn",
	"scikit-learn":                "Scikit-learn",
	"scikit learn":                "Scikit-learn",
	"tensorflow":                  "TensorFlow",
	"tf":                          "TensorFlow",
	"pytorch":                     "PyTorch",
	"numpy":                       "NumPy",
	"power bi":                    "Power BI",
	"powerbi":                     "Power BI",
	"spark":                       "Apache Spark",
	"apache spark":                "Apache Spark",
	"pyspark":                     "Apache Spark",

	// web
	"react":        "React",
	"react.js":     "React",
	"reactjs":      "React",
	"vue":          "Vue",
	"vue.js":       "Vue",
	"vuejs":        "Vue",
	"node":         "Node.js",
	"node.js":      "Node.js",
	"nodejs":       "Node.js",
	"graphql":      "GraphQL",
	"grpc":         "gRPC",
	"fastapi":      "FastAPI",
	".net":         ".NET",
	"dotnet":       ".NET",
	"rest api":     "REST APIs",
	"rest apis":    "REST APIs",
	"restful apis": "REST APIs",

	// infrastructure
	"k8s":                   "Kubernetes",
	"kubernetes":            "Kubernetes",
	"aws":                   "AWS",
	"amazon web services":   "AWS",
	"gcp":                   "Google Cloud",
	"google cloud":          "Google Cloud",
	"google cloud platform": "Google Cloud",
	"azure":                 "Azure",
	"microsoft azure":       "Azure",
	"ci/cd":                 "CI/CD",
	"cicd":                  "CI/CD",
	"postgres":              "PostgreSQL",
	"postgresql":            "PostgreSQL",
	"mysql":                 "MySQL",
	"mongodb":               "MongoDB",
	"mongo":                 "MongoDB",
	"dynamodb":              "DynamoDB",
	"elasticsearch":         "Elasticsearch",
	"github actions":        "GitHub Actions",
	"sqlite":                "SQLite",
	"microsoft excel":       "Excel",
	"ms excel":              "Excel",
}

// Normalizer maps skills to canonical names. It is immutable and safe for concurrent use.
type Normalizer struct {
	aliases map[string]string
}

// NewNormalizer creates a normalizer over the built-in alias table plus extra aliases.
// Extra keys are matched case-insensitively and override built-in entries.
func NewNormalizer(extra map[string]string) *Normalizer {
	aliases := make(map[string]string, len(skillAliases)+len(extra))
	for k, v := range skillAliases {
		aliases[k] = v
	}
	for k, v := range extra {
		if key := normalizeKey(k); key != "" && strings.TrimSpace(v) != "" {
			aliases[key] = strings.TrimSpace(v)
		}
	}
	// every canonical name maps to itself, so normalizing twice is a no-op
	canonicals := make([]string, 0, len(aliases))
	for _, canonical := range aliases {
		canonicals = append(canonicals, canonical)
	}
	for _, canonical := range canonicals {
		key := normalizeKey(canonical)
		if _, ok := aliases[key]; !ok {
			aliases[key] = canonical
		}
	}
	return &Normalizer{aliases: aliases}
}

var defaultNormalizer = NewNormalizer(nil)

// Default returns the normalizer over the built-in alias table
func Default() *Normalizer {
	return defaultNormalizer
}

// Canonical looks up the canonical name for a skill alias
func (n *Normalizer) Canonical(skill string) (string, bool) {
	canonical, ok := n.aliases[normalizeKey(skill)]
	return canonical, ok
}

// NormalizeSkillName returns the canonical name of one skill; unknown skills are
// title-cased and blank input yields "".
func (n *Normalizer) NormalizeSkillName(skill string) string {
	key := normalizeKey(skill)
	if key == "" {
		return ""
	}
	if canonical, ok := n.aliases[key]; ok {
		return canonical
	}
	return cases.Title(language.English).String(key)
}

// Normalize maps every skill to its canonical name, drops blanks and returns
// the distinct results sorted.
func (n *Normalizer) Normalize(skills []string) []string {
	seen := make(map[string]bool, len(skills))
	out := make([]string, 0, len(skills))
	for _, s := range skills {
		name := n.NormalizeSkillName(s)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// NormalizeSkillName normalizes a skill name with the default normalizer
func NormalizeSkillName(skill string) string {
	return defaultNormalizer.NormalizeSkillName(skill)
}

// Normalize normalizes a skill list with the default normalizer
func Normalize(skills []string) []string {
	return defaultNormalizer.Normalize(skills)
}

func normalizeKey(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
