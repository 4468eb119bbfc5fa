// Package topics maps free-text user input to a fixed taxonomy of Red Hat
// technology topics via keyword matching.
package topics

import "strings"

// Bucket binds a taxonomy topic to the keywords that select it.
type Bucket struct {
	Name     string
	Keywords []string
}

// Buckets is the fixed taxonomy, in match-priority order.
var Buckets = []Bucket{
	{"openshift", []string{"openshift", "kubernetes", "k8s", "okd", "container orchestration"}},
	{"ansible", []string{"ansible", "playbook", "automation controller", "awx", "it automation"}},
	{"rhel", []string{"rhel", "red hat enterprise linux", "linux administration", "centos", "fedora"}},
	{"containers", []string{"container", "podman", "docker", "buildah", "cri-o"}},
	{"virtualization", []string{"virtualization", "virtual machine", "kvm", "hypervisor", "kubevirt"}},
	{"storage", []string{"storage", "ceph", "gluster", "object storage", "block storage"}},
	{"security", []string{"security", "selinux", "compliance", "hardening", "encryption"}},
	{"networking", []string{"networking", "network admin", "sdn", "load balancing", "firewalld"}},
	{"cloud", []string{"cloud", "hybrid cloud", "aws", "azure", "gcp"}},
	{"devops", []string{"devops", "ci/cd", "cicd", "gitops", "pipeline"}},
	{"middleware", []string{"middleware", "jboss", "quarkus", "kafka", "camel"}},
	{"monitoring", []string{"monitoring", "observability", "prometheus", "grafana", "logging"}},
}

// stopwords are skipped by the raw-token fallback.
var stopwords = map[string]struct{}{
	"want": {}, "learn": {}, "learning": {}, "about": {}, "with": {},
	"from": {}, "this": {}, "that": {}, "what": {}, "when": {},
	"where": {}, "need": {}, "have": {}, "will": {}, "your": {},
	"know": {}, "more": {}, "some": {}, "them": {}, "they": {},
	"into": {}, "just": {}, "also": {}, "very": {}, "would": {},
	"could": {}, "should": {}, "like": {}, "really": {}, "interested": {},
}

const maxFallbackTopics = 3

// Extract returns the taxonomy topics whose keywords appear in text, in
// first-match order with set semantics. When no bucket matches it falls back
// to the first three sufficiently long stopword-filtered tokens.
func Extract(text string) []string {
	lower := strings.ToLower(text)

	var matched []string
	seen := map[string]struct{}{}
	for _, bucket := range Buckets {
		for _, kw := range bucket.Keywords {
			if strings.Contains(lower, kw) {
				if _, ok := seen[bucket.Name]; !ok {
					seen[bucket.Name] = struct{}{}
					matched = append(matched, bucket.Name)
				}
				break
			}
		}
	}
	if len(matched) > 0 {
		return matched
	}

	return fallbackTokens(lower)
}

func fallbackTokens(lower string) []string {
	var tokens []string
	seen := map[string]struct{}{}
	for _, tok := range strings.Fields(lower) {
		tok = strings.Trim(tok, ".,;:!?\"'()")
		if len(tok) <= 3 {
			continue
		}
		if _, skip := stopwords[tok]; skip {
			continue
		}
		if _, dup := seen[tok]; dup {
			continue
		}
		seen[tok] = struct{}{}
		tokens = append(tokens, tok)
		if len(tokens) == maxFallbackTopics {
			break
		}
	}
	return tokens
}
