package topics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractBucketMatch(t *testing.T) {
	t.Parallel()

	// Both keywords land in the same bucket; set semantics collapse them.
	got := Extract("I want to learn OpenShift and Kubernetes")
	assert.Equal(t, []string{"openshift"}, got)
}

func TestExtractMultipleBuckets(t *testing.T) {
	t.Parallel()

	got := Extract("Ansible playbooks for RHEL security hardening")
	assert.Equal(t, []string{"ansible", "rhel", "security"}, got)
}

func TestExtractFallback(t *testing.T) {
	t.Parallel()

	got := Extract("purple elephants dancing")
	assert.Equal(t, []string{"purple", "elephants", "dancing"}, got)
}

func TestExtractFallbackSkipsStopwordsAndShortTokens(t *testing.T) {
	t.Parallel()

	got := Extract("I want to learn about big purple elephants dancing wildly tonight")
	assert.Equal(t, []string{"purple", "elephants", "dancing"}, got)
}

func TestExtractEmptyInput(t *testing.T) {
	t.Parallel()

	assert.Empty(t, Extract(""))
	assert.Empty(t, Extract("a an it"))
}

func TestBucketKeywordsSelectOwnBucket(t *testing.T) {
	t.Parallel()

	for _, bucket := range Buckets {
		for _, kw := range bucket.Keywords {
			got := Extract(kw)
			if assert.NotEmpty(t, got, "keyword %q matched nothing", kw) {
				// The keyword may legitimately hit an earlier bucket too
				// (e.g. substrings); its own bucket must be among the hits.
				assert.Contains(t, got, bucket.Name, "keyword %q missed bucket %q", kw, bucket.Name)
			}
		}
	}
}
