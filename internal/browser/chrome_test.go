package browser

import (
	"testing"
	"time"

	"github.com/chromedp/cdproto/target"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()
	assert.True(t, opts.Headless)
	assert.Equal(t, 30*time.Second, opts.PageLoadTimeout)
	assert.Equal(t, 5*time.Second, opts.ImplicitWait)
	assert.Equal(t, "sp_message_iframe_953822", opts.ConsentFrameID)
}

func TestAllocatorOptionsGrowWithSettings(t *testing.T) {
	base := DefaultOptions()
	base.DisableImages = false
	base.WindowWidth = 0

	full := DefaultOptions()
	full.ExecPath = "/usr/bin/chromium"
	full.UserAgent = "playervalue-test"

	assert.Greater(t, len(allocatorOptions(full)), len(allocatorOptions(base)))
}

func TestConsentTargetMatchesFrameSource(t *testing.T) {
	const src = "https://cdn.privacy-mgmt.com/index.html?message_id=953822"
	infos := []*target.Info{
		{TargetID: "page", Type: "page", URL: "https://www.transfermarkt.fr/"},
		{TargetID: "ads", Type: "iframe", URL: "https://ads.example.com/frame"},
		{TargetID: "same-host", Type: "iframe", URL: "https://cdn.privacy-mgmt.com/other"},
		{TargetID: "exact", Type: "iframe", URL: src},
	}

	id, ok := consentTarget(infos, src)
	require.True(t, ok)
	assert.Equal(t, target.ID("exact"), id)

	id, ok = consentTarget(infos[:3], src)
	require.True(t, ok)
	assert.Equal(t, target.ID("same-host"), id)
}

func TestConsentTargetFallsBackToFrameNode(t *testing.T) {
	infos := []*target.Info{
		{TargetID: "page", Type: "page", URL: "https://www.transfermarkt.fr/"},
		{TargetID: "ads", Type: "iframe", URL: "https://ads.example.com/frame"},
	}

	_, ok := consentTarget(infos, "https://cdn.privacy-mgmt.com/index.html")
	assert.False(t, ok, "no iframe target on the frame's host")

	_, ok = consentTarget(infos, "")
	assert.False(t, ok, "same-origin frames have no src to match")
}
