package handler

import (
	"context"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/dmorgan81/pairgen/internal/feed"
	"github.com/dmorgan81/pairgen/internal/image"
	"github.com/dmorgan81/pairgen/internal/log"
	"github.com/dmorgan81/pairgen/internal/page"
	"github.com/dmorgan81/pairgen/internal/pair"
	"github.com/dmorgan81/pairgen/internal/prompt"
	"github.com/dmorgan81/pairgen/internal/store"
	"github.com/google/uuid"
	"github.com/samber/do"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
)

type Input struct {
	Left  string `json:"left,omitempty"`
	Right string `json:"right,omitempty"`
}

type Output struct {
	ID         string `json:"id"`
	Date       string `json:"date"`
	Left       string `json:"left"`
	Right      string `json:"right"`
	LeftImage  string `json:"leftImage,omitempty"`
	RightImage string `json:"rightImage,omitempty"`
	Page       string `json:"page"`
	Error      string `json:"error,omitempty"`
}

func (o Output) toMetadata() map[string]string {
	return map[string]string{
		"id":    o.ID,
		"date":  o.Date,
		"left":  o.Left,
		"right": o.Right,
	}
}

func (o Output) toPageParams(errMsg string) page.Params {
	return page.Params{
		ID:          o.ID,
		LeftPrompt:  o.Left,
		RightPrompt: o.Right,
		LeftImage:   o.LeftImage,
		RightImage:  o.RightImage,
		Error:       errMsg,
	}
}

type Handler struct {
	randomizer  *prompt.Randomizer
	generator   image.Generator
	uploader    store.Uploader
	invalidator store.Invalidator
	templator   *page.Templator
	feed        *feed.Generator
}

func NewHandler(i *do.Injector) (*Handler, error) {
	return &Handler{
		randomizer:  do.MustInvoke[*prompt.Randomizer](i),
		generator:   do.MustInvoke[image.Generator](i),
		uploader:    do.MustInvoke[store.Uploader](i),
		invalidator: do.MustInvoke[store.Invalidator](i),
		templator:   do.MustInvoke[*page.Templator](i),
		feed:        do.MustInvoke[*feed.Generator](i),
	}, nil
}

// Handle runs one generation round and publishes whatever it produced. A failed
// generation is reported in Output.Error; only publishing failures are errors.
func (h *Handler) Handle(ctx context.Context, input Input) (Output, error) {
	log := log.FromContextOrDiscard(ctx).WithGroup("Handler").With("input", input)
	log.Info("handling invocation")

	if input.Left == "" || input.Right == "" {
		left, right, err := h.randomizer.Randomize(ctx)
		if err != nil {
			return Output{}, err
		}
		input.Left = lo.Ternary(input.Left != "", input.Left, left)
		input.Right = lo.Ternary(input.Right != "", input.Right, right)
	}

	out := Output{
		ID:    uuid.NewString(),
		Date:  time.Now().UTC().Format("20060102"),
		Left:  input.Left,
		Right: input.Right,
	}
	out.Page = out.ID + ".html"
	log = log.With("id", out.ID)

	coordinator := pair.New(h.generator, pair.WithObserver(func(s pair.State) {
		log.Debug("state changed", "busy", s.Busy, "left", len(s.Left), "right", len(s.Right), "error", s.LastError)
	}))
	<-coordinator.Generate(ctx, out.Left, out.Right)
	state := coordinator.State()
	out.Error = state.LastError

	metadata := out.toMetadata()
	uploads := make([]store.UploadParams, 0, 4)
	for _, img := range []struct {
		data []byte
		side pair.Side
		name *string
	}{
		{state.Left, pair.Left, &out.LeftImage},
		{state.Right, pair.Right, &out.RightImage},
	} {
		if len(img.data) == 0 {
			continue
		}
		contentType := http.DetectContentType(img.data)
		*img.name = path.Join(out.ID, img.side.String()+extension(contentType))
		uploads = append(uploads, store.UploadParams{
			Name:        *img.name,
			Data:        img.data,
			ContentType: contentType,
			Metadata:    metadata,
		})
	}

	html, err := h.templator.Template(ctx, out.toPageParams(state.LastError))
	if err != nil {
		return Output{}, err
	}
	uploads = append(uploads, store.UploadParams{
		Name:        out.Page,
		Data:        html,
		ContentType: "text/html",
		Metadata:    metadata,
	})
	// latest.html keeps the previous pair when this round produced no image at all.
	latest := out.LeftImage != "" || out.RightImage != ""
	if latest {
		uploads = append(uploads, store.UploadParams{
			Name:        "latest.html",
			Data:        html,
			ContentType: "text/html",
		})
	}

	group, gctx := errgroup.WithContext(ctx)
	for _, u := range uploads {
		group.Go(func() error {
			return h.uploader.Upload(gctx, u)
		})
	}
	if err := group.Wait(); err != nil {
		return Output{}, err
	}

	rss, err := h.feed.Generate(ctx)
	if err != nil {
		return Output{}, err
	}
	if err := h.uploader.Upload(ctx, store.UploadParams{
		Name:        feed.Name,
		Data:        rss,
		ContentType: "application/rss+xml",
	}); err != nil {
		return Output{}, err
	}

	paths := []string{"/" + out.Page, "/" + feed.Name}
	if latest {
		paths = append(paths, "/latest.html")
	}
	if err := h.invalidator.Invalidate(ctx, paths); err != nil {
		return Output{}, err
	}

	log.Info("round published", "error", out.Error)
	return out, nil
}

func extension(contentType string) string {
	switch strings.ToLower(contentType) {
	case "image/jpeg":
		return ".jpg"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	case "image/png":
		return ".png"
	default:
		return ".bin"
	}
}
