package cli

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/Yijia-Z/dalle2-app/internal/client/config"
	"github.com/Yijia-Z/dalle2-app/internal/common"
	"github.com/Yijia-Z/dalle2-app/internal/imagegen"
	"github.com/Yijia-Z/dalle2-app/internal/logging"
	"github.com/Yijia-Z/dalle2-app/internal/models"
	"github.com/Yijia-Z/dalle2-app/internal/services"
	"github.com/Yijia-Z/dalle2-app/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngBytes = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}

type fakeImages struct {
	n       int
	err     error
	lastKey string
	calls   int
}

func (f *fakeImages) respond(apiKey string) (*imagegen.Response, error) {
	f.calls++
	f.lastKey = apiKey
	if f.err != nil {
		return nil, f.err
	}
	r := &imagegen.Response{Created: 1700000000}
	for i := 0; i < f.n; i++ {
		r.Data = append(r.Data, imagegen.ImageData{B64JSON: base64.StdEncoding.EncodeToString(pngBytes)})
	}
	return r, nil
}

func (f *fakeImages) Generate(_ context.Context, k string, _ imagegen.GenerateRequest) (*imagegen.Response, error) {
	return f.respond(k)
}
func (f *fakeImages) Vary(_ context.Context, k string, _ imagegen.VariationRequest) (*imagegen.Response, error) {
	return f.respond(k)
}
func (f *fakeImages) Edit(_ context.Context, k string, _ imagegen.EditRequest) (*imagegen.Response, error) {
	return f.respond(k)
}

func newTestApp(t *testing.T, images *fakeImages, apiKey string) (*App, *bytes.Buffer) {
	t.Helper()
	capturePrintln(t)
	ctx := context.Background()

	store, err := storage.Open(ctx, storage.Options{Driver: "sqlite", DSN: ":memory:"}, logging.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	history := services.NewHistoryService(store.Slots(), store.Blobs())
	out := &bytes.Buffer{}
	a := &App{
		config:    &config.Config{ExportDir: t.TempDir()},
		logger:    logging.Nop(),
		store:     store,
		studio:    services.NewStudioService(images, history, logging.Nop()),
		history:   history,
		creds:     services.NewCredentialService(store.Conn(), store.SlotFactory()),
		out:       out,
		model:     models.ModelDallE2,
		keySource: keyNone,
	}
	if apiKey != "" {
		a.apiKey, a.keySource = apiKey, keyEnv
	}
	return a, out
}

func writePNG(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, pngBytes, 0o600))
	return path
}

func TestGenerate_SavesAndLists(t *testing.T) {
	images := &fakeImages{n: 2}
	a, out := newTestApp(t, images, "sk-env")
	ctx := context.Background()

	require.NoError(t, a.Generate(ctx, []string{"-n", "2", "-size", "256x256", "a", "red", "fox"}))
	assert.Equal(t, "sk-env", images.lastKey)
	assert.Contains(t, out.String(), "Saved 2 image(s)")
	assert.Contains(t, out.String(), "Cost: $0.032")

	out.Reset()
	require.NoError(t, a.List(ctx, nil))
	assert.Contains(t, out.String(), "a red fox")
	assert.Contains(t, out.String(), "1 record(s), total $0.032")
}

func TestGenerate_RemoteErrorLeavesHistoryEmpty(t *testing.T) {
	images := &fakeImages{err: &imagegen.APIError{StatusCode: 400, Message: "Invalid prompt"}}
	a, out := newTestApp(t, images, "sk")
	ctx := context.Background()

	err := a.Generate(ctx, []string{"x"})
	require.Error(t, err)
	assert.Equal(t, "Invalid prompt", imagegen.UserMessage(err))

	out.Reset()
	require.NoError(t, a.List(ctx, nil))
	assert.Contains(t, out.String(), "History is empty")
}

func TestGenerate_NoKey(t *testing.T) {
	images := &fakeImages{n: 1}
	a, _ := newTestApp(t, images, "")

	err := a.Generate(context.Background(), []string{"x"})
	assert.ErrorIs(t, err, common.ErrNoAPIKey)
	assert.Zero(t, images.calls)
}

func TestEdit_ShowExportDelete(t *testing.T) {
	images := &fakeImages{n: 2}
	a, out := newTestApp(t, images, "sk")
	ctx := context.Background()

	src := writePNG(t, "src.png")
	mask := writePNG(t, "mask.png")
	require.NoError(t, a.Edit(ctx, []string{"-n", "2", "-mask", mask, src, "add", "a", "moon"}))

	list, err := a.history.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	id := list[0].ID

	out.Reset()
	require.NoError(t, a.Show(ctx, []string{id}))
	assert.Contains(t, out.String(), "Prompt:   add a moon")
	assert.Contains(t, out.String(), id+"_mask")

	dir := t.TempDir()
	require.NoError(t, a.Export(ctx, []string{id, dir}))
	for _, suffix := range []string{"_original", "_mask", "_0", "_1"} {
		_, err := os.Stat(filepath.Join(dir, id+suffix+".png"))
		assert.NoError(t, err, suffix)
	}

	out.Reset()
	require.NoError(t, a.Delete(ctx, []string{id}))
	assert.Contains(t, out.String(), "Deleted 1 record(s)")

	err = a.Show(ctx, []string{id})
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestVary_RequiresDallE2(t *testing.T) {
	images := &fakeImages{n: 1}
	a, _ := newTestApp(t, images, "sk")
	ctx := context.Background()
	src := writePNG(t, "src.png")

	require.NoError(t, a.SetModel(ctx, []string{"gpt-image-1"}))
	err := a.Vary(ctx, []string{src})
	assert.ErrorIs(t, err, common.ErrorValidation)

	require.NoError(t, a.SetModel(ctx, []string{"dall-e-2"}))
	require.NoError(t, a.Vary(ctx, []string{src}))
	assert.Equal(t, 1, images.calls)
}

func TestUsageErrors(t *testing.T) {
	a, _ := newTestApp(t, &fakeImages{}, "sk")
	ctx := context.Background()

	assert.Error(t, a.Vary(ctx, nil))
	assert.Error(t, a.Edit(ctx, []string{"only.png"}))
	assert.Error(t, a.Show(ctx, nil))
	assert.Error(t, a.Delete(ctx, nil))
	assert.Error(t, a.Export(ctx, nil))
	assert.Error(t, a.SetModel(ctx, []string{"dall-e-9"}))
	assert.Error(t, a.APIKey(ctx, []string{"bogus"}))
}

func TestCost(t *testing.T) {
	a, out := newTestApp(t, &fakeImages{}, "sk")
	ctx := context.Background()

	require.NoError(t, a.Cost(ctx, []string{"-n", "3", "-size", "512x512"}))
	assert.Contains(t, out.String(), "Estimated cost: $0.054")

	require.NoError(t, a.SetModel(ctx, []string{"gpt-image-1"}))
	out.Reset()
	require.NoError(t, a.Cost(ctx, []string{"-quality", "high", "-size", "1536x1024"}))
	assert.Contains(t, out.String(), "Estimated cost: $0.250")
	assert.Contains(t, out.String(), "input tokens")

	assert.Error(t, a.Cost(ctx, []string{"-size", "256x256"}))
}

func TestAPIKey_SetUnlockClear(t *testing.T) {
	images := &fakeImages{n: 1}
	a, out := newTestApp(t, images, "")
	ctx := context.Background()

	stubPasswords(t, "sk-vault", "pass", "pass", "wrong")

	require.NoError(t, a.APIKey(ctx, []string{"set"}))
	assert.Equal(t, keyVault, a.keySource)

	// A fresh session has to unlock the stored key on first use.
	a.apiKey, a.keySource = "", keyNone
	require.NoError(t, a.Generate(ctx, []string{"hello"}))
	assert.Equal(t, "sk-vault", images.lastKey)

	a.apiKey, a.keySource = "", keyNone
	err := a.APIKey(ctx, []string{"unlock"})
	assert.ErrorIs(t, err, common.ErrWrongPassphrase)

	out.Reset()
	require.NoError(t, a.APIKey(ctx, nil))
	assert.Contains(t, out.String(), "Stored key fingerprint")

	require.NoError(t, a.APIKey(ctx, []string{"clear"}))
	out.Reset()
	require.NoError(t, a.APIKey(ctx, []string{"status"}))
	assert.Contains(t, out.String(), "No key stored")
}

func TestGenerate_SaveFailureWritesImagesToExportDir(t *testing.T) {
	images := &fakeImages{n: 1}
	a, out := newTestApp(t, images, "sk")
	a.studio = services.NewStudioService(images, failCommit{}, logging.Nop())

	ctx := context.Background()
	require.NoError(t, a.Generate(ctx, []string{"x"}))
	assert.Contains(t, out.String(), "Error saving images")

	images.n = 2
	require.NoError(t, a.Generate(ctx, []string{"y"}))

	first, err := filepath.Glob(filepath.Join(a.config.ExportDir, "unsaved_*_0.png"))
	require.NoError(t, err)
	assert.Len(t, first, 2)

	all, err := filepath.Glob(filepath.Join(a.config.ExportDir, "unsaved_*.png"))
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

type failCommit struct{}

func (failCommit) Commit(context.Context, models.Draft) (*models.GenerationRecord, error) {
	return nil, errors.New("slot full")
}

func TestGetStatus(t *testing.T) {
	a, _ := newTestApp(t, &fakeImages{}, "sk")
	assert.Equal(t, "(dall-e-2, key: env)", a.getStatus())
}
