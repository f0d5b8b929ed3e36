package mdbundle

import (
	"context"
	"time"

	"github.com/alnah/go-mdbundle/internal/blockmodel"
	"github.com/alnah/go-mdbundle/internal/docgraph"
	"github.com/alnah/go-mdbundle/internal/imageutil"
	"github.com/alnah/go-mdbundle/internal/layout"
	"github.com/alnah/go-mdbundle/internal/pdfenc"
)

// producer identifies the library in the PDF information dictionary.
const producer = "go-mdbundle"

// graphResolver resolves the linked document set under a workspace root.
type graphResolver interface {
	Resolve(ctx context.Context, root string, entries []string) (*docgraph.Graph, error)
}

// blockBuilder turns one document's source into layout-ready blocks.
type blockBuilder interface {
	Build(source []byte, resolveImage func(raw string) (string, bool)) []blockmodel.Block
}

// pageLayouter paginates blocks into positioned fragments.
type pageLayouter interface {
	Layout(cfg layout.Config, manifest layout.Manifest, blocks []blockmodel.Block) []layout.Page
}

// pdfEncoder serializes laid-out pages into the output document.
type pdfEncoder interface {
	Encode(pages []layout.Page, images map[string]*imageutil.Resource, meta pdfenc.Metadata) ([]byte, int, error)
}

// Compile-time interface implementation checks.
var (
	_ graphResolver = (*docgraph.Resolver)(nil)
	_ blockBuilder  = goldmarkBuilder{}
	_ pageLayouter  = nativeLayouter{}
	_ pdfEncoder    = nativeEncoder{}
)

// goldmarkBuilder adapts the block model builder to the pipeline seam.
type goldmarkBuilder struct{}

func (goldmarkBuilder) Build(source []byte, resolveImage func(string) (string, bool)) []blockmodel.Block {
	return blockmodel.Build(source, resolveImage)
}

// nativeLayouter adapts the layout engine to the pipeline seam.
type nativeLayouter struct{}

func (nativeLayouter) Layout(cfg layout.Config, manifest layout.Manifest, blocks []blockmodel.Block) []layout.Page {
	return layout.Layout(cfg, manifest, blocks)
}

// nativeEncoder adapts the PDF encoder to the pipeline seam.
type nativeEncoder struct{}

func (nativeEncoder) Encode(pages []layout.Page, images map[string]*imageutil.Resource, meta pdfenc.Metadata) ([]byte, int, error) {
	return pdfenc.Encode(pages, images, meta)
}

// Service orchestrates the bundle-to-PDF pipeline: resolve the document
// graph, build blocks, paginate, encode, write.
type Service struct {
	cfg      serviceConfig
	resolver graphResolver
	builder  blockBuilder
	layouter pageLayouter
	encoder  pdfEncoder
}

// New creates a Service with default configuration. Use options to
// customize page geometry, typography, image scaling, and output naming.
func New(opts ...Option) *Service {
	s := &Service{
		cfg: serviceConfig{
			page:       DefaultPageSettings(),
			text:       DefaultTextSettings(),
			image:      DefaultImageSettings(),
			outputName: DefaultOutputName,
			codeStyle:  DefaultCodeStyle,
			clock:      time.Now,
		},
		resolver: docgraph.NewResolver(),
		builder:  goldmarkBuilder{},
		layouter: nativeLayouter{},
		encoder:  nativeEncoder{},
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// validateSettings checks the merged service configuration. Settings are
// validated per conversion so a misconfigured Service fails loudly
// instead of producing a broken document.
func (s *Service) validateSettings() error {
	if err := s.cfg.page.Validate(); err != nil {
		return err
	}
	if err := s.cfg.text.Validate(); err != nil {
		return err
	}
	if err := s.cfg.image.Validate(); err != nil {
		return err
	}
	return nil
}

// layoutConfig merges the service settings into the engine configuration.
func (s *Service) layoutConfig() layout.Config {
	cfg := layout.DefaultConfig()

	cfg.PageWidthMM = s.cfg.page.WidthMM
	cfg.PageHeightMM = s.cfg.page.HeightMM
	cfg.MarginMM = s.cfg.page.MarginMM

	cfg.BodySizePt = s.cfg.text.BodySizePt
	cfg.CodeSizePt = s.cfg.text.CodeSizePt
	cfg.HeadingSizesPt = s.cfg.text.HeadingSizesPt
	cfg.LineHeightScale = s.cfg.text.LineSpacing

	cfg.ImageDPI = s.cfg.image.DPI
	cfg.ImageMaxWidthFrac = s.cfg.image.MaxWidthFraction
	cfg.ImageMaxHeightMM = s.cfg.image.MaxHeightMM

	cfg.CodeStyle = s.cfg.codeStyle

	return cfg
}
