package audit

import (
	_ "embed"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed data/knownactions.yml
var knownActionsYAML []byte

type knownActionsData struct {
	ArbitraryCode     []string                `yaml:"arbitrary_code"`
	TrustedPublishers []trustedPublisherEntry `yaml:"trusted_publishers"`
}

// trustedPublisherEntry describes one action recognized as a trusted-
// publishing-capable package-manager publish step: its repo reference, the
// with: key it reads the registry URL from, and the registries that
// actually support trusted publishing for it.
type trustedPublisherEntry struct {
	Action           string   `yaml:"action"`           // "owner/repo", matched against ActionRef.Owner/Repo
	RegistryKeys     []string `yaml:"registry_keys"`    // with: keys that may hold a registry URL (dashed/underscored variants both listed)
	CredentialKeys   []string `yaml:"credential_keys"`  // with: keys that indicate a credential was supplied
	SupportedServers []string `yaml:"supported_servers"` // registry URLs/hosts known to support trusted publishing
}

var knownActions = mustLoadKnownActions(knownActionsYAML)

func mustLoadKnownActions(raw []byte) knownActionsData {
	var d knownActionsData
	if err := yaml.Unmarshal(raw, &d); err != nil {
		panic("audit: invalid embedded knownactions.yml: " + err.Error())
	}
	return d
}

// IsArbitraryCodeAction reports whether "owner/repo" is a registered
// arbitrary-code-execution action (actions/github-script and similar),
// matched case-insensitively.
func IsArbitraryCodeAction(ownerRepo string) bool {
	ownerRepo = strings.ToLower(ownerRepo)
	for _, a := range knownActions.ArbitraryCode {
		if strings.ToLower(a) == ownerRepo {
			return true
		}
	}
	return false
}

// TrustedPublisherFor returns the registry entry for "owner/repo", if it's
// a recognized trusted-publishing-capable action.
func TrustedPublisherFor(ownerRepo string) (trustedPublisherEntry, bool) {
	ownerRepo = strings.ToLower(ownerRepo)
	for _, e := range knownActions.TrustedPublishers {
		if strings.ToLower(e.Action) == ownerRepo {
			return e, true
		}
	}
	return trustedPublisherEntry{}, false
}

// SupportsServer reports whether server (a registry URL or bare host) is
// one of this entry's known-supports-trusted-publishing registries.
func (e trustedPublisherEntry) SupportsServer(server string) bool {
	server = strings.ToLower(strings.TrimSuffix(server, "/"))
	for _, s := range e.SupportedServers {
		if strings.ToLower(strings.TrimSuffix(s, "/")) == server {
			return true
		}
	}
	return false
}
