package predictor

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magdaondimu/Capstone-Project-Phase-5/pkg/models"
)

func TestLabelEncoderRoundTrip(t *testing.T) {
	enc, err := NewLabelEncoder(testRegions)
	require.NoError(t, err)

	for i, class := range testRegions {
		code, err := enc.Encode(class)
		require.NoError(t, err)
		assert.Equal(t, i, code)

		decoded, err := enc.Decode(code)
		require.NoError(t, err)
		assert.Equal(t, class, decoded)
	}
}

func TestLabelEncoderErrors(t *testing.T) {
	enc, err := NewLabelEncoder(testResponses)
	require.NoError(t, err)

	_, err = enc.Encode("Martial Law")
	assert.True(t, errors.Is(err, ErrUnknownCategory))

	_, err = enc.Decode(3)
	assert.True(t, errors.Is(err, ErrUnmappedLabel))
	_, err = enc.Decode(-1)
	assert.True(t, errors.Is(err, ErrUnmappedLabel))

	_, err = NewLabelEncoder(nil)
	assert.Error(t, err)
	_, err = NewLabelEncoder([]string{"a", "a"})
	assert.Error(t, err)
}

func TestLoadLabelEncoder(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "le_region.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"classes": ["Africa", "Canada"]}`), 0644))

	enc, err := LoadLabelEncoder(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Africa", "Canada"}, enc.Classes())

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"classes": `), 0644))
	_, err = LoadLabelEncoder(bad)
	assert.Error(t, err)

	_, err = LoadLabelEncoder(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}

func TestRegionRoundTripWithAlias(t *testing.T) {
	artifacts := newTestArtifacts(t)

	canada, err := artifacts.EncodeRegion(models.CanadaRegion)
	require.NoError(t, err)
	alias, err := artifacts.EncodeRegion(models.CanadaFormLabel)
	require.NoError(t, err)
	assert.Equal(t, canada, alias)

	decoded, err := artifacts.Region.Decode(alias)
	require.NoError(t, err)
	assert.Equal(t, models.CanadaRegion, decoded)

	_, err = artifacts.EncodeRegion("Atlantis")
	assert.True(t, errors.Is(err, ErrUnknownCategory))
}

func TestResponseRoundTrip(t *testing.T) {
	artifacts := newTestArtifacts(t)

	for _, label := range models.ResponseLabels {
		code, err := artifacts.EncodeResponse(label)
		require.NoError(t, err)
		decoded, err := artifacts.DecodeResponse(code)
		require.NoError(t, err)
		assert.Equal(t, label, decoded)
	}
}
