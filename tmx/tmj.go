// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package tmx

import (
	"encoding/json"
	"fmt"
	"image/color"
	"io"

	"github.com/gogpu/tilemap"
)

// LoadJSON parses a Tiled JSON (.tmj) document.
func LoadJSON(r io.Reader, opts ...Option) (*tilemap.MapData, error) {
	var o loadOptions
	for _, opt := range opts {
		opt(&o)
	}

	var doc jsonMap
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("tmx: decode json document: %w", err)
	}
	return doc.convert(o)
}

// jsonMap models the Tiled JSON map format. The JSON format carries tile
// layers and object layers in one heterogeneous list discriminated by the
// layer "type" field, unlike the XML format's distinct elements.
type jsonMap struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	TileWidth   int    `json:"tilewidth"`
	TileHeight  int    `json:"tileheight"`
	Orientation string `json:"orientation"`
	RenderOrder string `json:"renderorder"`
	Infinite    bool   `json:"infinite"`

	Tilesets   []jsonTileset  `json:"tilesets"`
	Layers     []jsonLayer    `json:"layers"`
	Properties []jsonProperty `json:"properties"`
}

type jsonTileset struct {
	FirstGID    uint32 `json:"firstgid"`
	Source      string `json:"source"`
	Name        string `json:"name"`
	TileWidth   int    `json:"tilewidth"`
	TileHeight  int    `json:"tileheight"`
	TileCount   int    `json:"tilecount"`
	Columns     int    `json:"columns"`
	Spacing     int    `json:"spacing"`
	Margin      int    `json:"margin"`
	Image       string `json:"image"`
	ImageWidth  int    `json:"imagewidth"`
	ImageHeight int    `json:"imageheight"`

	Tiles      []jsonTile     `json:"tiles"`
	Properties []jsonProperty `json:"properties"`
}

type jsonTile struct {
	ID          uint32         `json:"id"`
	Type        string         `json:"type"`
	Animation   []jsonFrame    `json:"animation"`
	ObjectGroup *jsonLayer     `json:"objectgroup"`
	Properties  []jsonProperty `json:"properties"`
}

type jsonFrame struct {
	TileID   uint32 `json:"tileid"`
	Duration int    `json:"duration"`
}

type jsonLayer struct {
	ID        int      `json:"id"`
	Name      string   `json:"name"`
	Type      string   `json:"type"`
	Width     int      `json:"width"`
	Height    int      `json:"height"`
	Data      []uint32 `json:"data"`
	Opacity   *float64 `json:"opacity"`
	Visible   *bool    `json:"visible"`
	OffsetX   float64  `json:"offsetx"`
	OffsetY   float64  `json:"offsety"`
	ParallaxX *float64 `json:"parallaxx"`
	ParallaxY *float64 `json:"parallaxy"`
	TintColor string   `json:"tintcolor"`

	Objects    []jsonObject   `json:"objects"`
	Properties []jsonProperty `json:"properties"`
}

type jsonObject struct {
	ID       int     `json:"id"`
	Name     string  `json:"name"`
	Type     string  `json:"type"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	Rotation float64 `json:"rotation"`

	Polygon  []jsonPoint `json:"polygon"`
	Polyline []jsonPoint `json:"polyline"`
	Ellipse  bool        `json:"ellipse"`
	Point    bool        `json:"point"`

	Properties []jsonProperty `json:"properties"`
}

type jsonPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type jsonProperty struct {
	Name  string `json:"name"`
	Type  string `json:"type"`
	Value any    `json:"value"`
}

func (doc *jsonMap) convert(o loadOptions) (*tilemap.MapData, error) {
	out := &tilemap.MapData{
		Width:       doc.Width,
		Height:      doc.Height,
		TileWidth:   doc.TileWidth,
		TileHeight:  doc.TileHeight,
		Orientation: doc.Orientation,
		RenderOrder: doc.RenderOrder,
		Infinite:    doc.Infinite,
		Properties:  convertJSONProperties(doc.Properties),
	}

	for i := range doc.Tilesets {
		ts, err := doc.Tilesets[i].convert(o)
		if err != nil {
			return nil, err
		}
		out.Tilesets = append(out.Tilesets, ts)
	}
	for i := range doc.Layers {
		l := &doc.Layers[i]
		switch l.Type {
		case "tilelayer":
			ld, err := l.convertTileLayer()
			if err != nil {
				return nil, err
			}
			out.Layers = append(out.Layers, ld)
		case "objectgroup":
			out.ObjectLayers = append(out.ObjectLayers, l.convertObjectLayer())
		}
	}
	return out, nil
}

func (ts *jsonTileset) convert(o loadOptions) (*tilemap.TilesetData, error) {
	if ts.Source != "" {
		return nil, fmt.Errorf("%w: %q", ErrExternalTileset, ts.Source)
	}

	out := &tilemap.TilesetData{
		Name:        ts.Name,
		FirstGID:    ts.FirstGID,
		TileWidth:   ts.TileWidth,
		TileHeight:  ts.TileHeight,
		ImageWidth:  ts.ImageWidth,
		ImageHeight: ts.ImageHeight,
		Columns:     ts.Columns,
		TileCount:   ts.TileCount,
		Spacing:     ts.Spacing,
		Margin:      ts.Margin,
		Properties:  convertJSONProperties(ts.Properties),
	}

	for i := range ts.Tiles {
		t := &ts.Tiles[i]
		def := &tilemap.TileDef{
			Properties: convertJSONProperties(t.Properties),
		}
		for _, f := range t.Animation {
			def.Animation = append(def.Animation, tilemap.Frame{
				TileID:     f.TileID,
				DurationMs: float64(f.Duration),
			})
		}
		if t.ObjectGroup != nil {
			for j := range t.ObjectGroup.Objects {
				shape, ok := jsonTileShape(&t.ObjectGroup.Objects[j], float64(ts.TileHeight))
				if ok {
					def.Shapes = append(def.Shapes, shape)
				}
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

	if o.textures != nil && ts.Image != "" {
		tex, err := o.textures(ts.Image, ts.ImageWidth, ts.ImageHeight)
		if err != nil {
			return nil, fmt.Errorf("tmx: tileset %q texture: %w", ts.Name, err)
		}
		out.Texture = tex
	}
	return out, nil
}

// jsonTileShape mirrors tileShape for JSON objects: Y-down tile space in,
// Y-up tile-local shape out. Point objects report ok=false.
func jsonTileShape(obj *jsonObject, tileH float64) (tilemap.CollisionShape, bool) {
	if obj.Point {
		return tilemap.CollisionShape{}, false
	}
	switch {
	case len(obj.Polygon) > 0:
		return tilemap.CollisionShape{
			Type:   tilemap.ShapePolygon,
			X:      obj.X,
			Y:      tileH - obj.Y,
			Points: localPoints(jsonPoints(obj.Polygon), obj.X, obj.Y, tileH),
		}, true
	case len(obj.Polyline) > 0:
		return tilemap.CollisionShape{
			Type:   tilemap.ShapePolyline,
			X:      obj.X,
			Y:      tileH - obj.Y,
			Points: localPoints(jsonPoints(obj.Polyline), obj.X, obj.Y, tileH),
		}, true
	case obj.Ellipse:
		return tilemap.CollisionShape{
			Type:   tilemap.ShapeEllipse,
			X:      obj.X,
			Y:      tileH - obj.Y - obj.Height,
			Width:  obj.Width,
			Height: obj.Height,
		}, true
	default:
		return tilemap.CollisionShape{
			Type:   tilemap.ShapeRect,
			X:      obj.X,
			Y:      tileH - obj.Y - obj.Height,
			Width:  obj.Width,
			Height: obj.Height,
		}, true
	}
}

func (l *jsonLayer) convertTileLayer() (*tilemap.TileLayerData, error) {
	if len(l.Data) != l.Width*l.Height {
		return nil, fmt.Errorf("tmx: layer %q: %w: %d values for %dx%d",
			l.Name, ErrBadDataLength, len(l.Data), l.Width, l.Height)
	}
	gids := make([]tilemap.GID, len(l.Data))
	for i, v := range l.Data {
		gids[i] = tilemap.GID(v)
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
		Properties: convertJSONProperties(l.Properties),
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

func (l *jsonLayer) convertObjectLayer() *tilemap.ObjectLayerData {
	out := &tilemap.ObjectLayerData{
		Name:       l.Name,
		ID:         l.ID,
		Properties: convertJSONProperties(l.Properties),
	}
	for i := range l.Objects {
		src := &l.Objects[i]
		out.Objects = append(out.Objects, &tilemap.ObjectData{
			ID:          src.ID,
			Name:        src.Name,
			Type:        src.Type,
			X:           src.X,
			Y:           src.Y,
			Width:       src.Width,
			Height:      src.Height,
			Rotation:    src.Rotation,
			Polygon:     jsonPoints(src.Polygon),
			Polyline:    jsonPoints(src.Polyline),
			Ellipse:     src.Ellipse,
			PointObject: src.Point,
			Properties:  convertJSONProperties(src.Properties),
		})
	}
	return out
}

func jsonPoints(pts []jsonPoint) []tilemap.Point {
	if len(pts) == 0 {
		return nil
	}
	out := make([]tilemap.Point, len(pts))
	for i, p := range pts {
		out[i] = tilemap.Point{X: p.X, Y: p.Y}
	}
	return out
}

// convertJSONProperties converts a property list to a typed map. JSON
// property values already arrive typed; int-typed values are normalized from
// json's float64 decoding.
func convertJSONProperties(props []jsonProperty) map[string]any {
	if len(props) == 0 {
		return nil
	}
	out := make(map[string]any, len(props))
	for _, p := range props {
		if p.Type == "int" {
			if f, ok := p.Value.(float64); ok {
				out[p.Name] = int(f)
				continue
			}
		}
		out[p.Name] = p.Value
	}
	return out
}
