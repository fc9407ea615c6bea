package texture

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/ftrvxmtrx/tga"
	"golang.org/x/image/webp"

	"github.com/Saucyfinn/Wairimu-Website-sub000/internal/postprocess"
)

// maxDownload caps the size of a fetched panorama.
const maxDownload = 64 << 20

// ErrUnknownFormat is returned for data that is not JPEG, PNG, WebP or TGA.
var ErrUnknownFormat = errors.New("texture: unknown image format")

// Source loads a panorama image by reference (URL, path or indexed name).
type Source interface {
	Load(ctx context.Context, ref string) (*image.NRGBA, error)
}

// Loader reads panoramas from disk or over HTTP.
type Loader struct {
	Client *http.Client
	Index  *Index
	// BaseDir is the web root for local references. When set, "/img/a.jpg"
	// names a file under it and references climbing out with ".." fail.
	BaseDir string
	// MaxWidth scales wider panoramas down on load; zero keeps full size.
	MaxWidth int
}

// Load fetches and decodes ref.
func (l *Loader) Load(ctx context.Context, ref string) (*image.NRGBA, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var raw []byte
	var err error
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		raw, err = l.fetch(ctx, ref)
	} else {
		raw, err = l.read(ref)
	}
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	img, err := Decode(raw, ref)
	if err != nil {
		return nil, err
	}
	return postprocess.FitWidth(img, l.MaxWidth), nil
}

func (l *Loader) read(ref string) ([]byte, error) {
	path, ok := l.Index.ResolvePath(ref)
	if !ok {
		path = ref
		if l.BaseDir != "" {
			for _, seg := range strings.Split(filepath.ToSlash(ref), "/") {
				if seg == ".." {
					return nil, fmt.Errorf("texture: %s escapes %s", ref, l.BaseDir)
				}
			}
			path = filepath.Join(l.BaseDir, filepath.FromSlash(strings.TrimPrefix(ref, "/")))
		}
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("texture: read %s: %w", path, err)
	}
	return raw, nil
}

func (l *Loader) fetch(ctx context.Context, url string) ([]byte, error) {
	client := l.Client
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("texture: request %s: %w", url, err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("texture: fetch %s: %w", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("texture: fetch %s: status %s", url, resp.Status)
	}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxDownload+1))
	if err != nil {
		return nil, fmt.Errorf("texture: fetch %s: %w", url, err)
	}
	if len(raw) > maxDownload {
		return nil, fmt.Errorf("texture: fetch %s: larger than %d bytes", url, maxDownload)
	}
	return raw, nil
}

// Decode sniffs the encoding of raw and decodes it to NRGBA. TGA has no
// magic number, so it is only tried when name ends in .tga.
func Decode(raw []byte, name string) (*image.NRGBA, error) {
	var img image.Image
	var err error
	r := bytes.NewReader(raw)
	switch {
	case bytes.HasPrefix(raw, []byte{0xff, 0xd8}):
		img, err = jpeg.Decode(r)
	case bytes.HasPrefix(raw, []byte("\x89PNG")):
		img, err = png.Decode(r)
	case len(raw) >= 12 && string(raw[:4]) == "RIFF" && string(raw[8:12]) == "WEBP":
		img, err = webp.Decode(r)
	case strings.EqualFold(filepath.Ext(name), ".tga"):
		img, err = tga.Decode(r)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, name)
	}
	if err != nil {
		return nil, fmt.Errorf("texture: decode %s: %w", name, err)
	}
	return toNRGBA(img), nil
}

// toNRGBA converts any image to NRGBA format with its origin at (0,0).
func toNRGBA(src image.Image) *image.NRGBA {
	if n, ok := src.(*image.NRGBA); ok && n.Rect.Min == (image.Point{}) {
		return n
	}
	b := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	switch src.(type) {
	case *image.YCbCr, *image.Gray:
		// No alpha: draw and set alpha to 255
		draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
		for i := 3; i < len(dst.Pix); i += 4 {
			dst.Pix[i] = 255
		}
	default:
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				c := color.NRGBAModel.Convert(src.At(x, y)).(color.NRGBA)
				dst.SetNRGBA(x-b.Min.X, y-b.Min.Y, c)
			}
		}
	}
	return dst
}
