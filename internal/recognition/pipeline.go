package recognition

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/RakanBA/AYAN/internal/logger"
	"github.com/RakanBA/AYAN/internal/metrics"
	"github.com/RakanBA/AYAN/internal/model"
)

const (
	BuildingClass       = "Building"
	BuildingMinimumConf = 0.7
)

// Stage names a step of the identification state machine.
type Stage string

const (
	StageTransport Stage = "transport"
	StageBuilding  Stage = "building"
	StageLandmark  Stage = "landmark"
	StageResolve   Stage = "resolve"
	StageEnrich    Stage = "enrich"
	StageDone      Stage = "done"
)

// Catalog resolves classifier labels to known landmarks.
type Catalog interface {
	MatchName(label string) (model.Landmark, bool)
}

type Request struct {
	Image Image
	// OriginSecure reports whether the caller's own origin is served over
	// an encrypted transport.
	OriginSecure bool
}

type Pipeline struct {
	client  *Client
	catalog Catalog
	log     *logger.Logger
}

func NewPipeline(client *Client, catalog Catalog, log *logger.Logger) *Pipeline {
	if log == nil {
		log = logger.NewNop()
	}
	return &Pipeline{client: client, catalog: catalog, log: log}
}

type run struct {
	req      Request
	label    string
	landmark model.Landmark
}

// Identify runs the stages in order and stops at the first failure. Only
// enrichment is allowed to fail without failing the run.
func (p *Pipeline) Identify(ctx context.Context, req Request) (model.Landmark, error) {
	if req.Image.Empty() {
		return model.Landmark{}, ErrEmptyImage
	}
	started := time.Now()
	r := &run{req: req}
	stage := StageTransport
	for stage != StageDone {
		next, err := p.step(ctx, stage, r)
		if err != nil {
			kind := KindOf(err)
			metrics.RecordIdentification(string(kind), time.Since(started))
			p.log.Warn("identification failed", "stage", stage, "kind", kind, "label", r.label, "err", err)
			return model.Landmark{}, err
		}
		stage = next
	}
	metrics.RecordIdentification("success", time.Since(started))
	p.log.Info("identification succeeded", "landmark_id", r.landmark.ID, "label", r.label, "elapsed_ms", time.Since(started).Milliseconds())
	return r.landmark, nil
}

func (p *Pipeline) step(ctx context.Context, stage Stage, r *run) (Stage, error) {
	switch stage {
	case StageTransport:
		if r.req.OriginSecure {
			for _, endpoint := range p.client.ClassifierURLs() {
				if !isEncrypted(endpoint) {
					return "", &Error{Kind: KindInsecureTransport, Stage: stage}
				}
			}
		}
		return StageBuilding, nil

	case StageBuilding:
		pred, err := p.client.ClassifyBuilding(ctx, r.req.Image)
		if err != nil {
			return "", &Error{Kind: KindService, Stage: stage, Err: err}
		}
		p.log.Debug("building classified", "class", pred.Class, "confidence", pred.Confidence)
		if pred.Class != BuildingClass || !(pred.Confidence >= BuildingMinimumConf) {
			return "", &Error{Kind: KindNotABuilding, Stage: stage, Label: pred.Class}
		}
		return StageLandmark, nil

	case StageLandmark:
		pred, err := p.client.ClassifyLandmark(ctx, r.req.Image)
		if err != nil {
			return "", &Error{Kind: KindService, Stage: stage, Err: err}
		}
		r.label = pred.Class
		return StageResolve, nil

	case StageResolve:
		lm, ok := p.catalog.MatchName(r.label)
		if !ok {
			return "", &Error{Kind: KindLandmarkNotFound, Stage: stage, Label: r.label}
		}
		r.landmark = lm.Clone()
		return StageEnrich, nil

	case StageEnrich:
		r.landmark = p.enrich(ctx, r.label, r.landmark)
		return StageDone, nil
	}
	return StageDone, nil
}

// enrich merges the lookup record into a copy of lm. Any failure leaves lm
// as it was.
func (p *Pipeline) enrich(ctx context.Context, label string, lm model.Landmark) model.Landmark {
	if !p.client.HasInfo() {
		metrics.RecordEnrichment("skipped")
		return lm
	}
	raw, err := p.client.LookupInfo(ctx, label)
	if err != nil {
		metrics.RecordEnrichment("failed")
		p.log.Warn("enrichment lookup failed, using catalog data", "label", label, "err", err)
		return lm
	}
	if !gjson.ValidBytes(raw) || !gjson.ParseBytes(raw).IsObject() {
		metrics.RecordEnrichment("malformed")
		p.log.Warn("enrichment payload malformed, using catalog data", "label", label)
		return lm
	}
	metrics.RecordEnrichment("ok")
	return MergeEnrichment(lm, raw)
}

// MergeEnrichment overrides each text field of lm for which the payload
// carries a non-empty value. Coordinates are replaced only when both LAT and
// LON are present as finite numbers.
func MergeEnrichment(lm model.Landmark, raw []byte) model.Landmark {
	out := lm.Clone()
	doc := gjson.ParseBytes(raw)

	override := func(dst *string, path string) {
		if v := strings.TrimSpace(doc.Get(path).String()); v != "" {
			*dst = v
		}
	}
	override(&out.Description.EN, "Description_en")
	override(&out.Description.AR, "Description_ar")
	override(&out.History.EN, "History_en")
	override(&out.History.AR, "History_ar")
	override(&out.Location.EN, "Location_en")
	override(&out.Location.AR, "Location_ar")

	lat, latOK := number(doc.Get("LAT"))
	lon, lonOK := number(doc.Get("LON"))
	if latOK && lonOK {
		out.Coordinates = &model.Coordinates{Lat: lat, Lon: lon}
	}
	return out
}

func isEncrypted(endpoint string) bool {
	u, err := url.Parse(endpoint)
	if err != nil {
		return false
	}
	switch strings.ToLower(u.Scheme) {
	case "https", "wss":
		return true
	default:
		return false
	}
}
