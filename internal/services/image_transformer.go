package services

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io"
	"net/http"

	"github.com/disintegration/imaging"

	"github.com/s3-uploads-api/internal/errs"
)

// ImageTransformer fetches a remote image and scales it so that its smaller
// side equals the target dimension ("N^xN^"). It does not crop.
type ImageTransformer struct {
	client *http.Client
}

func NewImageTransformer(client *http.Client) *ImageTransformer {
	if client == nil {
		client = http.DefaultClient
	}
	return &ImageTransformer{client: client}
}

// Transform returns the re-encoded image. The encoder writes into a pipe and
// the whole output is collected in memory; there is no size ceiling.
func (t *ImageTransformer) Transform(ctx context.Context, sourceURL string, dimension int) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, sourceURL, nil)
	if err != nil {
		return nil, errs.Wrap(errs.KindTransform, "image", "build request", err)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, errs.Wrap(errs.KindTransform, "image", "fetch "+sourceURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errs.Wrap(errs.KindTransform, "image", "fetch "+sourceURL,
			fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	pr, pw := io.Pipe()
	go func() {
		pw.CloseWithError(resizeCover(resp.Body, pw, dimension))
	}()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, pr); err != nil {
		pr.CloseWithError(err)
		return nil, errs.Wrap(errs.KindTransform, "image", "resize", err)
	}

	return buf.Bytes(), nil
}

// resizeCover decodes src, scales it to cover dimension x dimension and
// encodes it to dst in the source format.
func resizeCover(src io.Reader, dst io.Writer, dimension int) error {
	img, format, err := image.Decode(src)
	if err != nil {
		return fmt.Errorf("failed to decode image: %w", err)
	}

	out, err := imaging.FormatFromExtension(format)
	if err != nil {
		out = imaging.JPEG
	}

	b := img.Bounds()
	width, height := dimension, 0
	if b.Dx() > b.Dy() {
		width, height = 0, dimension
	}
	resized := imaging.Resize(img, width, height, imaging.Lanczos)

	if err := imaging.Encode(dst, resized, out); err != nil {
		return fmt.Errorf("failed to encode image: %w", err)
	}
	return nil
}
