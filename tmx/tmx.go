// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package tmx

import (
	"bytes"
	"compress/gzip"
	"compress/zlib"
	"encoding/base64"
	"encoding/binary"
	"encoding/xml"
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gogpu/tilemap"
	"github.com/gogpu/tilemap/render"
)

// TextureLoader turns a tileset's image reference into a texture. The source
// string is the image path exactly as written in the document; width and
// height are the declared atlas dimensions in pixels.
type TextureLoader func(source string, width, height int) (render.Texture, error)

// Option configures a load.
type Option func(*loadOptions)

type loadOptions struct {
	textures TextureLoader
}

// WithTextureLoader sets the callback used to create each tileset's atlas
// texture. Without it every tileset is loaded headless (nil texture).
func WithTextureLoader(fn TextureLoader) Option {
	return func(o *loadOptions) { o.textures = fn }
}

// LoadFile loads a Tiled document from disk, choosing the format by file
// extension: .tmj and .json parse as JSON, everything else as XML.
func LoadFile(path string, opts ...Option) (*tilemap.MapData, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("tmx: open %s: %w", path, err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".tmj", ".json":
		return LoadJSON(f, opts...)
	default:
		return Load(f, opts...)
	}
}

// Load parses a TMX (XML) document.
func Load(r io.Reader, opts ...Option) (*tilemap.MapData, error) {
	var o loadOptions
	for _, opt := range opts {
		opt(&o)
	}

	var doc xmlMap
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("tmx: decode document: %w", err)
	}
	return doc.convert(o)
}

// xmlMap models the <map> root element.
type xmlMap struct {
	Version     string `xml:"version,attr"`
	Orientation string `xml:"orientation,attr"`
	RenderOrder string `xml:"renderorder,attr"`
	Width       int    `xml:"width,attr"`
	Height      int    `xml:"height,attr"`
	TileWidth   int    `xml:"tilewidth,attr"`
	TileHeight  int    `xml:"tileheight,attr"`
	Infinite    int    `xml:"infinite,attr"`

	Properties   []xmlProperty    `xml:"properties>property"`
	Tilesets     []xmlTileset     `xml:"tileset"`
	Layers       []xmlLayer       `xml:"layer"`
	ObjectGroups []xmlObjectGroup `xml:"objectgroup"`
}

type xmlTileset struct {
	FirstGID   uint32 `xml:"firstgid,attr"`
	Source     string `xml:"source,attr"`
	Name       string `xml:"name,attr"`
	TileWidth  int    `xml:"tilewidth,attr"`
	TileHeight int    `xml:"tileheight,attr"`
	Spacing    int    `xml:"spacing,attr"`
	Margin     int    `xml:"margin,attr"`
	TileCount  int    `xml:"tilecount,attr"`
	Columns    int    `xml:"columns,attr"`

	Image      xmlImage      `xml:"image"`
	Properties []xmlProperty `xml:"properties>property"`
	Tiles      []xmlTile     `xml:"tile"`
}

type xmlImage struct {
	Source string `xml:"source,attr"`
	Width  int    `xml:"width,attr"`
	Height int    `xml:"height,attr"`
}

type xmlTile struct {
	ID         uint32        `xml:"id,attr"`
	Type       string        `xml:"type,attr"`
	Properties []xmlProperty `xml:"properties>property"`
	Objects    []xmlObject   `xml:"objectgroup>object"`
	Frames     []xmlFrame    `xml:"animation>frame"`
}

type xmlFrame struct {
	TileID   uint32 `xml:"tileid,attr"`
	Duration int    `xml:"duration,attr"`
}

type xmlLayer struct {
	ID        int      `xml:"id,attr"`
	Name      string   `xml:"name,attr"`
	Width     int      `xml:"width,attr"`
	Height    int      `xml:"height,attr"`
	Opacity   *float64 `xml:"opacity,attr"`
	Visible   *bool    `xml:"visible,attr"`
	OffsetX   float64  `xml:"offsetx,attr"`
	OffsetY   float64  `xml:"offsety,attr"`
	ParallaxX *float64 `xml:"parallaxx,attr"`
	ParallaxY *float64 `xml:"parallaxy,attr"`
	TintColor string   `xml:"tintcolor,attr"`

	Properties []xmlProperty `xml:"properties>property"`
	Data       xmlData       `xml:"data"`
}

type xmlData struct {
	Encoding    string `xml:"encoding,attr"`
	Compression string `xml:"compression,attr"`
	Raw         string `xml:",chardata"`
}

type xmlObjectGroup struct {
	ID         int           `xml:"id,attr"`
	Name       string        `xml:"name,attr"`
	Properties []xmlProperty `xml:"properties>property"`
	Objects    []xmlObject   `xml:"object"`
}

type xmlObject struct {
	ID       int     `xml:"id,attr"`
	Name     string  `xml:"name,attr"`
	Type     string  `xml:"type,attr"`
	X        float64 `xml:"x,attr"`
	Y        float64 `xml:"y,attr"`
	Width    float64 `xml:"width,attr"`
	Height   float64 `xml:"height,attr"`
	Rotation float64 `xml:"rotation,attr"`

	Polygon  *xmlPoints `xml:"polygon"`
	Polyline *xmlPoints `xml:"polyline"`
	Ellipse  *struct{}  `xml:"ellipse"`
	Point    *struct{}  `xml:"point"`

	Properties []xmlProperty `xml:"properties>property"`
}

type xmlPoints struct {
	Points string `xml:"points,attr"`
}

type xmlProperty struct {
	Name  string `xml:"name,attr"`
	Type  string `xml:"type,attr"`
	Value string `xml:"value,attr"`
}

// convert turns the parsed document into the tilemap data model.
func (doc *xmlMap) convert(o loadOptions) (*tilemap.MapData, error) {
	out := &tilemap.MapData{
		Width:       doc.Width,
		Height:      doc.Height,
		TileWidth:   doc.TileWidth,
		TileHeight:  doc.TileHeight,
		Orientation: doc.Orientation,
		RenderOrder: doc.RenderOrder,
		Infinite:    doc.Infinite != 0,
		Properties:  convertXMLProperties(doc.Properties),
	}

	for i := range doc.Tilesets {
		ts, err := doc.Tilesets[i].convert(o)
		if err != nil {
			return nil, err
		}
		out.Tilesets = append(out.Tilesets, ts)
	}
	for i := range doc.Layers {
		ld, err := doc.Layers[i].convert()
		if err != nil {
			return nil, err
		}
		out.Layers = append(out.Layers, ld)
	}
	for i := range doc.ObjectGroups {
		og, err := doc.ObjectGroups[i].convert()
		if err != nil {
			return nil, err
		}
		out.ObjectLayers = append(out.ObjectLayers, og)
	}
	return out, nil
}

func (ts *xmlTileset) convert(o loadOptions) (*tilemap.TilesetData, error) {
	if ts.Source != "" {
		return nil, fmt.Errorf("%w: %q", ErrExternalTileset, ts.Source)
	}

	out := &tilemap.TilesetData{
		Name:        ts.Name,
		FirstGID:    ts.FirstGID,
		TileWidth:   ts.TileWidth,
		TileHeight:  ts.TileHeight,
		ImageWidth:  ts.Image.Width,
		ImageHeight: ts.Image.Height,
		Columns:     ts.Columns,
		TileCount:   ts.TileCount,
		Spacing:     ts.Spacing,
		Margin:      ts.Margin,
		Properties:  convertXMLProperties(ts.Properties),
	}

	for i := range ts.Tiles {
		t := &ts.Tiles[i]
		def := &tilemap.TileDef{
			Properties: convertXMLProperties(t.Properties),
		}
		for _, f := range t.Frames {
			def.Animation = append(def.Animation, tilemap.Frame{
				TileID:     f.TileID,
				DurationMs: float64(f.Duration),
			})
		}
		for j := range t.Objects {
			shape, ok, err := tileShape(&t.Objects[j], float64(ts.TileHeight))
			if err != nil {
				return nil, err
			}
			if ok {
				def.Shapes = append(def.Shapes, shape)
			}
		}
		if def.Animation == nil && def.Shapes == nil && def.Properties == nil {
			continue
		}
		if out.Tiles == nil {
			out.Tiles = make(map[uint32]*tilemap.TileDef)
		}
		out.Tiles[t.ID] = def
	}

	if o.textures != nil && ts.Image.Source != "" {
		tex, err := o.textures(ts.Image.Source, ts.Image.Width, ts.Image.Height)
		if err != nil {
			return nil, fmt.Errorf("tmx: tileset %q texture: %w", ts.Name, err)
		}
		out.Texture = tex
	}
	return out, nil
}

// tileShape converts one tile objectgroup object to a tile-local collision
// shape, flipping from the document's Y-down tile space (origin top-left) to
// the core's Y-up tile space (origin bottom-left). Point objects are never
// collidable and report ok=false.
func tileShape(obj *xmlObject, tileH float64) (tilemap.CollisionShape, bool, error) {
	if obj.Point != nil {
		return tilemap.CollisionShape{}, false, nil
	}
	switch {
	case obj.Polygon != nil:
		pts, err := parsePoints(obj.Polygon.Points)
		if err != nil {
			return tilemap.CollisionShape{}, false, err
		}
		return tilemap.CollisionShape{
			Type:   tilemap.ShapePolygon,
			X:      obj.X,
			Y:      tileH - obj.Y,
			Points: localPoints(pts, obj.X, obj.Y, tileH),
		}, true, nil
	case obj.Polyline != nil:
		pts, err := parsePoints(obj.Polyline.Points)
		if err != nil {
			return tilemap.CollisionShape{}, false, err
		}
		return tilemap.CollisionShape{
			Type:   tilemap.ShapePolyline,
			X:      obj.X,
			Y:      tileH - obj.Y,
			Points: localPoints(pts, obj.X, obj.Y, tileH),
		}, true, nil
	case obj.Ellipse != nil:
		return tilemap.CollisionShape{
			Type:   tilemap.ShapeEllipse,
			X:      obj.X,
			Y:      tileH - obj.Y - obj.Height,
			Width:  obj.Width,
			Height: obj.Height,
		}, true, nil
	default:
		return tilemap.CollisionShape{
			Type:   tilemap.ShapeRect,
			X:      obj.X,
			Y:      tileH - obj.Y - obj.Height,
			Width:  obj.Width,
			Height: obj.Height,
		}, true, nil
	}
}

// localPoints translates object-relative points by the object position and
// flips them into Y-up tile-local space.
func localPoints(pts []tilemap.Point, objX, objY, tileH float64) []tilemap.Point {
	out := make([]tilemap.Point, len(pts))
	for i, p := range pts {
		out[i] = tilemap.Point{X: objX + p.X, Y: tileH - (objY + p.Y)}
	}
	return out
}

func (l *xmlLayer) convert() (*tilemap.TileLayerData, error) {
	gids, err := decodeLayerData(&l.Data, l.Width, l.Height)
	if err != nil {
		return nil, fmt.Errorf("tmx: layer %q: %w", l.Name, err)
	}

	out := &tilemap.TileLayerData{
		Name:       l.Name,
		ID:         l.ID,
		Width:      l.Width,
		Height:     l.Height,
		GIDs:       gids,
		OffsetX:    l.OffsetX,
		OffsetY:    l.OffsetY,
		Opacity:    1,
		Visible:    true,
		ParallaxX:  1,
		ParallaxY:  1,
		Tint:       color.RGBA{R: 255, G: 255, B: 255, A: 255},
		Properties: convertXMLProperties(l.Properties),
	}
	if l.Opacity != nil {
		out.Opacity = *l.Opacity
	}
	if l.Visible != nil {
		out.Visible = *l.Visible
	}
	if l.ParallaxX != nil {
		out.ParallaxX = *l.ParallaxX
	}
	if l.ParallaxY != nil {
		out.ParallaxY = *l.ParallaxY
	}
	if l.TintColor != "" {
		tint, err := parseColor(l.TintColor)
		if err != nil {
			return nil, fmt.Errorf("tmx: layer %q: %w", l.Name, err)
		}
		out.Tint = tint
	}
	return out, nil
}

func (g *xmlObjectGroup) convert() (*tilemap.ObjectLayerData, error) {
	out := &tilemap.ObjectLayerData{
		Name:       g.Name,
		ID:         g.ID,
		Properties: convertXMLProperties(g.Properties),
	}
	for i := range g.Objects {
		src := &g.Objects[i]
		obj := &tilemap.ObjectData{
			ID:          src.ID,
			Name:        src.Name,
			Type:        src.Type,
			X:           src.X,
			Y:           src.Y,
			Width:       src.Width,
			Height:      src.Height,
			Rotation:    src.Rotation,
			Ellipse:     src.Ellipse != nil,
			PointObject: src.Point != nil,
			Properties:  convertXMLProperties(src.Properties),
		}
		if src.Polygon != nil {
			pts, err := parsePoints(src.Polygon.Points)
			if err != nil {
				return nil, fmt.Errorf("tmx: object %d: %w", src.ID, err)
			}
			obj.Polygon = pts
		}
		if src.Polyline != nil {
			pts, err := parsePoints(src.Polyline.Points)
			if err != nil {
				return nil, fmt.Errorf("tmx: object %d: %w", src.ID, err)
			}
			obj.Polyline = pts
		}
		out.Objects = append(out.Objects, obj)
	}
	return out, nil
}

// decodeLayerData decodes a <data> element into a GID grid. CSV and base64
// encodings are supported; base64 data may additionally be gzip- or
// zlib-compressed. The inline XML <tile> encoding is not supported.
func decodeLayerData(d *xmlData, width, height int) ([]tilemap.GID, error) {
	switch d.Encoding {
	case "csv":
		if d.Compression != "" {
			return nil, fmt.Errorf("%w: %q with csv", ErrUnsupportedCompression, d.Compression)
		}
		return decodeCSV(d.Raw, width, height)
	case "base64":
		raw, err := decodeBase64(d.Raw, d.Compression)
		if err != nil {
			return nil, err
		}
		if len(raw) != width*height*4 {
			return nil, fmt.Errorf("%w: %d bytes for %dx%d", ErrBadDataLength, len(raw), width, height)
		}
		gids := make([]tilemap.GID, width*height)
		for i := range gids {
			gids[i] = tilemap.GID(binary.LittleEndian.Uint32(raw[i*4:]))
		}
		return gids, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedEncoding, d.Encoding)
	}
}

func decodeCSV(raw string, width, height int) ([]tilemap.GID, error) {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == '\n' || r == '\r' || r == ' ' || r == '\t'
	})
	if len(fields) != width*height {
		return nil, fmt.Errorf("%w: %d values for %dx%d", ErrBadDataLength, len(fields), width, height)
	}
	gids := make([]tilemap.GID, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseUint(f, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("tmx: csv value %q: %w", f, err)
		}
		gids[i] = tilemap.GID(v)
	}
	return gids, nil
}

func decodeBase64(raw, compression string) ([]byte, error) {
	dec := base64.NewDecoder(base64.StdEncoding, strings.NewReader(strings.TrimSpace(raw)))

	var r io.Reader
	switch compression {
	case "":
		r = dec
	case "gzip":
		zr, err := gzip.NewReader(dec)
		if err != nil {
			return nil, fmt.Errorf("tmx: gzip: %w", err)
		}
		defer zr.Close()
		r = zr
	case "zlib":
		zr, err := zlib.NewReader(dec)
		if err != nil {
			return nil, fmt.Errorf("tmx: zlib: %w", err)
		}
		defer zr.Close()
		r = zr
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedCompression, compression)
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(r); err != nil {
		return nil, fmt.Errorf("tmx: decompress: %w", err)
	}
	return buf.Bytes(), nil
}

// parsePoints parses a "x0,y0 x1,y1 ..." points attribute.
func parsePoints(s string) ([]tilemap.Point, error) {
	parts := strings.Fields(s)
	if len(parts) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrBadPoints, s)
	}
	out := make([]tilemap.Point, len(parts))
	for i, part := range parts {
		x, y, ok := strings.Cut(part, ",")
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrBadPoints, part)
		}
		var err error
		if out[i].X, err = strconv.ParseFloat(x, 64); err != nil {
			return nil, fmt.Errorf("%w: %q", ErrBadPoints, part)
		}
		if out[i].Y, err = strconv.ParseFloat(y, 64); err != nil {
			return nil, fmt.Errorf("%w: %q", ErrBadPoints, part)
		}
	}
	return out, nil
}

// parseColor parses "#RRGGBB" or "#AARRGGBB" (leading '#' optional).
func parseColor(s string) (color.RGBA, error) {
	hex := strings.TrimPrefix(s, "#")
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("tmx: color %q: %w", s, err)
	}
	switch len(hex) {
	case 6:
		return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, nil
	case 8:
		return color.RGBA{A: uint8(v >> 24), R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, nil
	default:
		return color.RGBA{}, fmt.Errorf("tmx: color %q: bad length", s)
	}
}

// convertXMLProperties converts a property list to a typed map. Values keep
// the document's declared type: bool, int, float, or string for everything
// else. Empty lists convert to nil.
func convertXMLProperties(props []xmlProperty) map[string]any {
	if len(props) == 0 {
		return nil
	}
	out := make(map[string]any, len(props))
	for _, p := range props {
		out[p.Name] = typedValue(p.Type, p.Value)
	}
	return out
}

func typedValue(typ, val string) any {
	switch typ {
	case "bool":
		return val == "true"
	case "int":
		if v, err := strconv.Atoi(val); err == nil {
			return v
		}
	case "float":
		if v, err := strconv.ParseFloat(val, 64); err == nil {
			return v
		}
	}
	return val
}
