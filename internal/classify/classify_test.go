package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"learnpath/internal/domain"
)

func TestClassifyType(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		url   string
		title string
		want  domain.ContentType
	}{
		{"youtube host", "https://www.youtube.com/watch?v=abc", "Red Hat OpenShift Overview", domain.TypeVideo},
		{"short youtube host", "https://youtu.be/abc", "OpenShift in 10 minutes", domain.TypeVideo},
		{"docs subdomain", "https://docs.redhat.com/en/rhel/9", "Configuring networking", domain.TypeDocumentation},
		{"documentation in url", "https://access.redhat.com/documentation/en-us/openshift", "Install guide", domain.TypeDocumentation},
		{"documentation in title", "https://example.com/guide", "Product Documentation for RHEL", domain.TypeDocumentation},
		{"training keyword", "https://www.redhat.com/en/services/training/rh124", "System Administration I", domain.TypeTraining},
		{"certification keyword", "https://example.com/page", "RHCSA exam objectives", domain.TypeTraining},
		{"pdf suffix", "https://example.com/whitepaper.pdf", "Ansible whitepaper", domain.TypePDF},
		{"tutorial title", "https://example.com/post", "Podman tutorial for beginners", domain.TypeVideo},
		{"plain article", "https://example.com/blog/post", "Thoughts on containers", domain.TypeArticle},
		{"empty url", "", "Some title", domain.TypeUnknown},
		{"malformed url", "://not-a-url", "Some title", domain.TypeUnknown},
		{"relative url", "/local/path", "Some title", domain.TypeUnknown},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, ClassifyType(tc.url, tc.title))
		})
	}
}

func TestClassifyTypeRuleOrder(t *testing.T) {
	t.Parallel()

	// A youtube link whose title mentions documentation is still a video:
	// the video-host rule fires before the documentation rule.
	got := ClassifyType("https://www.youtube.com/watch?v=x", "OpenShift documentation deep dive")
	assert.Equal(t, domain.TypeVideo, got)

	// A docs-subdomain PDF classifies as documentation, not pdf.
	got = ClassifyType("https://docs.redhat.com/guide.pdf", "Guide")
	assert.Equal(t, domain.TypeDocumentation, got)
}

func TestIsRelated(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name        string
		title       string
		url         string
		description string
		want        bool
	}{
		{"brand in title", "Getting started with Red Hat", "https://example.com/a", "", true},
		{"product keyword", "Why I like OpenShift", "https://blog.example.com/b", "", true},
		{"official domain only", "Release notes", "https://access.redhat.com/articles/1", "", true},
		{"unrelated", "Gardening for beginners", "https://example.com/garden", "tomatoes and soil", false},
		{"youtube with brand", "Red Hat Summit keynote", "https://www.youtube.com/watch?v=1", "", true},
		{"youtube with flagship product", "Deploying apps", "https://www.youtube.com/watch?v=2", "hands-on with OpenShift", true},
		{"youtube without brand", "Linux tips", "https://www.youtube.com/watch?v=3", "generic rhel-free content about kernels", false},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, IsRelated(tc.title, tc.url, tc.description))
		})
	}
}

func TestIsRelatedYouTubeIgnoresURLKeywords(t *testing.T) {
	t.Parallel()

	// Keywords appearing only in the URL must not satisfy the stricter
	// video-host rule; title and description alone decide.
	got := IsRelated("Cooking show", "https://www.youtube.com/watch?v=redhat-rhel", "pasta recipes")
	assert.False(t, got)
}

func TestIsOfficialDomain(t *testing.T) {
	t.Parallel()

	assert.True(t, IsOfficialDomain("redhat.com"))
	assert.True(t, IsOfficialDomain("docs.redhat.com"))
	assert.True(t, IsOfficialDomain("www.openshift.com"))
	assert.True(t, IsOfficialDomain("www.ansible.com"))
	assert.False(t, IsOfficialDomain("notredhat.com"))
	assert.False(t, IsOfficialDomain("redhat.com.evil.org"))
	assert.False(t, IsOfficialDomain(""))
}

func TestExtractDomain(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "www.redhat.com", ExtractDomain("https://www.RedHat.com/en/topics"))
	assert.Equal(t, "youtu.be", ExtractDomain("https://youtu.be/abc"))
	assert.Equal(t, "unknown", ExtractDomain(""))
	assert.Equal(t, "unknown", ExtractDomain("not a url"))
}

func TestCleanTitle(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Red Hat Enterprise Linux 9", CleanTitle("  Red   Hat\tEnterprise\nLinux 9  "))
	assert.Equal(t, "OpenShift (v4) - Install & Update", CleanTitle("OpenShift (v4) - Install & Update"))
	assert.Equal(t, "Ansible 101", CleanTitle("Ansible™ 101✨"))
	assert.Equal(t, "", CleanTitle("   "))
}

func TestCleanDescription(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Learn the basics", CleanDescription("...Learn the basics..."))
	assert.Equal(t, "Learn the basics", CleanDescription("…Learn the basics…"))
	assert.Equal(t, "a b c", CleanDescription(" a \n b \t c "))
}
