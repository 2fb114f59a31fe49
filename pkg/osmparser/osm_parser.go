package osmparser

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/dsnet/compress/bzip2"
	"github.com/lintang-b-s/lanemap/pkg/util"
	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmxml"
)

var ErrNotOSM = errors.New("document root is not an osm element")

type multiCloser struct {
	io.Reader
	closers []io.Closer
}

func (m *multiCloser) Close() error {
	var firstErr error
	for _, c := range m.closers {
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Open. opens an OSM-XML map file. files ending in .bz2 are decompressed on the fly.
func Open(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	if !strings.HasSuffix(path, ".bz2") {
		return f, nil
	}

	bz, err := bzip2.NewReader(f, nil)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("open bzip2 stream %s: %w", path, err)
	}
	return &multiCloser{Reader: bz, closers: []io.Closer{bz, f}}, nil
}

func ParseFile(ctx context.Context, path string) (*Document, error) {
	rc, err := Open(path)
	if err != nil {
		return nil, util.WrapErrorf(err, util.ErrBadParamInput, "osmparser: open %s", path)
	}
	defer rc.Close()

	doc, err := Parse(ctx, rc)
	if err != nil {
		return nil, fmt.Errorf("osmparser: %s: %w", path, err)
	}
	return doc, nil
}

// Parse. reads an OSM-XML document. a root element other than <osm> is a fatal error.
func Parse(ctx context.Context, r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if err := checkRoot(data); err != nil {
		return nil, err
	}

	scanner := osmxml.New(ctx, bytes.NewReader(data))
	defer scanner.Close()

	doc := &Document{}
	for scanner.Scan() {
		switch o := scanner.Object().(type) {
		case *osm.Node:
			doc.Nodes = append(doc.Nodes, parseNode(o))
		case *osm.Way:
			doc.Ways = append(doc.Ways, parseWay(o))
		case *osm.Relation:
			doc.Relations = append(doc.Relations, parseRelation(o))
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan osm xml: %w", err)
	}
	return doc, nil
}

func checkRoot(data []byte) error {
	dec := xml.NewDecoder(bytes.NewReader(data))
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return ErrNotOSM
		}
		if err != nil {
			return fmt.Errorf("%w: %v", ErrNotOSM, err)
		}
		if se, ok := tok.(xml.StartElement); ok {
			if se.Name.Local != "osm" {
				return fmt.Errorf("%w: found <%s>", ErrNotOSM, se.Name.Local)
			}
			return nil
		}
	}
}

func parseFloatTag(tags osm.Tags, key string) (float64, bool) {
	v := tags.Find(key)
	if v == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

func parseNode(n *osm.Node) Node {
	node := Node{
		ID:      int64(n.ID),
		Lat:     n.Lat,
		Lon:     n.Lon,
		Type:    n.Tags.Find("type"),
		Subtype: n.Tags.Find("subtype"),
	}
	node.Ele, _ = parseFloatTag(n.Tags, "ele")

	x, okX := parseFloatTag(n.Tags, "local_x")
	y, okY := parseFloatTag(n.Tags, "local_y")
	if okX && okY {
		node.LocalX, node.LocalY, node.HasLocal = x, y, true
	}
	return node
}

func parseWay(w *osm.Way) Way {
	ids := make([]int64, len(w.Nodes))
	for i, wn := range w.Nodes {
		ids[i] = int64(wn.ID)
	}
	return Way{
		ID:      int64(w.ID),
		NodeIDs: ids,
		Area:    w.Tags.Find("area") == "yes",
		Type:    w.Tags.Find("type"),
		Subtype: w.Tags.Find("subtype"),
	}
}

func parseRelation(r *osm.Relation) Relation {
	members := make([]Member, len(r.Members))
	for i, m := range r.Members {
		members[i] = Member{Type: string(m.Type), Ref: m.Ref, Role: m.Role}
	}
	return Relation{
		ID:            int64(r.ID),
		Type:          r.Tags.Find("type"),
		Subtype:       r.Tags.Find("subtype"),
		Region:        r.Tags.Find("region"),
		Location:      r.Tags.Find("location"),
		TurnDirection: r.Tags.Find("turn_direction"),
		// lanelets are one way unless tagged otherwise.
		OneWay: r.Tags.Find("one_way") != "no",
		Participants: Participants{
			Vehicle:    r.Tags.Find("participant:vehicle") == "yes",
			Pedestrian: r.Tags.Find("participant:pedestrian") == "yes",
			Bicycle:    r.Tags.Find("participant:bicycle") == "yes",
		},
		Fallback: r.Tags.Find("fallback"),
		Members:  members,
	}
}
