package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/rental-portal/pkg/signing"
)

func TestParseParams(t *testing.T) {
	params, err := parseParams([]string{"public_id=tenant/abc", "folder=a=b"})
	require.NoError(t, err)
	assert.Equal(t, signing.Params{"public_id": "tenant/abc", "folder": "a=b"}, params)

	_, err = parseParams([]string{"novalue"})
	assert.Error(t, err)

	_, err = parseParams([]string{"=x"})
	assert.Error(t, err)
}

func TestRunSign(t *testing.T) {
	s, err := signing.NewSigner(
		signing.Credentials{CloudName: "demo", APIKey: "key", APISecret: "abcd"},
		func() time.Time { return time.Unix(1315060510, 0) },
	)
	require.NoError(t, err)
	signer = s
	t.Cleanup(func() { signer = nil; withTimestamp = false })

	var out bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&out)

	withTimestamp = true
	require.NoError(t, runSign(cmd, []string{"public_id=sample_image"}))

	params := signing.Params{"public_id": "sample_image", "timestamp": "1315060510"}
	assert.Equal(t,
		"canonical: public_id=sample_image&timestamp=1315060510\nsignature: "+signing.Sign(params, "abcd")+"\n",
		out.String())
}
