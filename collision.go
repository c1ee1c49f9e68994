// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package tilemap

import "strings"

// isCollisionLayerName reports whether an object layer feeds collision
// extraction: its name contains "collision" or "solid", case-insensitively.
func isCollisionLayerName(name string) bool {
	n := strings.ToLower(name)
	return strings.Contains(n, "collision") || strings.Contains(n, "solid")
}

// CollisionShapes returns the last extracted collision list in world space.
// The list is derived data: call ExtractCollisionData (or construct with
// WithCollision) to populate or refresh it.
func (m *Map) CollisionShapes() []CollisionShape { return m.collision }

// ExtractCollisionData rebuilds the unified world-space collision list from
// two sources and returns it:
//
//   - every non-empty tile whose owning tileset defines collision shapes for
//     it contributes those shapes translated by the tile's world position;
//   - every object layer whose name marks it as a collision source (see
//     isCollisionLayerName) contributes one shape per object, converted from
//     the source's Y-down pixel space to Y-up world space. Point objects are
//     never collidable and are excluded.
//
// The result is order-stable (layers in order, rows top to bottom, objects
// in order) and recomputed wholesale on every call.
func (m *Map) ExtractCollisionData() []CollisionShape {
	var shapes []CollisionShape

	tileW := float64(m.data.TileWidth)
	tileH := float64(m.data.TileHeight)
	for _, l := range m.layers {
		w, h := l.data.Width, l.data.Height
		for ty := 0; ty < h; ty++ {
			for tx := 0; tx < w; tx++ {
				gid := l.data.GIDs[ty*w+tx]
				if gid&GIDMask == 0 {
					continue
				}
				ts := m.TilesetForGID(gid)
				if ts == nil {
					continue
				}
				def := ts.Tile(gid & GIDMask)
				if def == nil || len(def.Shapes) == 0 {
					continue
				}
				worldX := float64(tx) * tileW
				worldY := float64(h-1-ty) * tileH
				for _, s := range def.Shapes {
					shapes = append(shapes, translateShape(s, worldX, worldY))
				}
			}
		}
	}

	_, pixelH := m.PixelSize()
	for _, ol := range m.objectLayers {
		if ol == nil || !isCollisionLayerName(ol.Name) {
			continue
		}
		for _, obj := range ol.Objects {
			if obj == nil || obj.PointObject {
				continue
			}
			shapes = append(shapes, objectShape(obj, pixelH))
		}
	}

	m.collision = shapes
	Logger().Debug("tilemap: collision extracted", "shapes", len(shapes))
	return shapes
}

// translateShape moves a tile-local shape to world space by the tile's world
// position. Tile-local coordinates translate directly on both axes.
func translateShape(s CollisionShape, worldX, worldY float64) CollisionShape {
	out := CollisionShape{
		Type:   s.Type,
		X:      s.X + worldX,
		Y:      s.Y + worldY,
		Width:  s.Width,
		Height: s.Height,
	}
	if len(s.Points) > 0 {
		out.Points = make([]Point, len(s.Points))
		for i, p := range s.Points {
			out.Points[i] = Point{X: p.X + worldX, Y: p.Y + worldY}
		}
	}
	return out
}

// objectShape converts one collision-layer object to a world-space shape.
// Polygons and polylines translate by the object position with Y inverted
// per point; ellipses and everything else map to their bounding box with
// Y = mapPixelHeight − objectY − objectHeight, converting Y-down object
// space to Y-up world space.
func objectShape(obj *ObjectData, pixelH float64) CollisionShape {
	switch {
	case len(obj.Polygon) > 0:
		return CollisionShape{
			Type:   ShapePolygon,
			X:      obj.X,
			Y:      pixelH - obj.Y,
			Points: invertPoints(obj.Polygon, obj.X, obj.Y, pixelH),
		}
	case len(obj.Polyline) > 0:
		return CollisionShape{
			Type:   ShapePolyline,
			X:      obj.X,
			Y:      pixelH - obj.Y,
			Points: invertPoints(obj.Polyline, obj.X, obj.Y, pixelH),
		}
	case obj.Ellipse:
		return CollisionShape{
			Type:   ShapeEllipse,
			X:      obj.X,
			Y:      pixelH - obj.Y - obj.Height,
			Width:  obj.Width,
			Height: obj.Height,
		}
	default:
		return CollisionShape{
			Type:   ShapeRect,
			X:      obj.X,
			Y:      pixelH - obj.Y - obj.Height,
			Width:  obj.Width,
			Height: obj.Height,
		}
	}
}

// invertPoints translates object-relative points by the object position and
// flips each into Y-up world space.
func invertPoints(pts []Point, objX, objY, pixelH float64) []Point {
	out := make([]Point, len(pts))
	for i, p := range pts {
		out[i] = Point{
			X: objX + p.X,
			Y: pixelH - (objY + p.Y),
		}
	}
	return out
}
