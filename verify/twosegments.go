package verify

import (
	"math"
	"strings"

	"gonum.org/v1/gonum/spatial/r2"

	"vgbench/datagen"
	"vgbench/geom"
)

// TwoSegments grades a two-segment partition answer. The answer is a Python
// list of exactly two segments, each a pair of boundary points. Endpoints
// are mapped into unit-square coordinates via the record's corners, checked
// against the boundary (and the coordinate grid, when one is specified),
// then the induced faces are counted and compared with the expected shape
// counts.
func TwoSegments(output string, rec *datagen.Record) Result {
	rawDetail := map[string]any{"raw_output": clip(output, 200)}

	segments, ok := parseTwoSegments(output)
	if !ok {
		r := failure("parse_failure")
		r.Details = rawDetail
		return r
	}

	countsExpected, ok := shapeCountsFromArgs(rec.DatagenArgs["counts"])
	if !ok {
		r := failure("missing_counts")
		r.Details = rawDetail
		return r
	}

	snapDecimals := 2
	if n, ok := looseInt(rec.DatagenArgs["snap_decimals"]); ok {
		snapDecimals = n
	}
	tol := 0.5 * math.Pow(10, -float64(snapDecimals))

	grid, _ := floatsFrom(rec.DatagenArgs["coordinate_grid"])
	rawCorners := rec.DatagenArgs["corners"]
	details := map[string]any{
		"counts_expected": countsExpected,
		"counts_observed": map[string]int{},
		"used_corners":    rawCorners,
	}

	mapping, errCode := prepareUnitMapping(rawCorners)
	if errCode == "" {
		var unit []geom.Segment
		unit, errCode = normaliseSegments(segments, mapping, tol, grid)
		if errCode == "" {
			observed, ok := classifySegments(unit, snapDecimals)
			if !ok {
				errCode = "invalid_segments"
			} else {
				details["counts_observed"] = observed
				if !shapeCountsEqual(observed, countsExpected) {
					errCode = "counts_mismatch"
				}
			}
		}
	}

	errs := []string{}
	if errCode != "" {
		errs = append(errs, errCode)
	}
	return Result{
		Passed:  len(errs) == 0,
		Missing: []any{},
		Extra:   []any{},
		Errors:  errs,
		Details: details,
	}
}

type unitMapping struct {
	origin [2]float64
	axisU  [2]float64
	axisV  [2]float64
	invDet float64
}

func parseTwoSegments(raw string) ([][2][2]float64, bool) {
	parsed, err := ParseLiteral(strings.TrimSpace(raw))
	if err != nil {
		return nil, false
	}
	items, ok := parsed.([]any)
	if !ok {
		return nil, false
	}
	segments := make([][2][2]float64, 0, len(items))
	for _, item := range items {
		seg, ok := toSegment(item)
		if !ok {
			return nil, false
		}
		segments = append(segments, seg)
	}
	if len(segments) != 2 {
		return nil, false
	}
	return segments, true
}

func toSegment(v any) ([2][2]float64, bool) {
	pair, ok := pairItems(v)
	if !ok {
		return [2][2]float64{}, false
	}
	var seg [2][2]float64
	for i, p := range pair {
		pt, ok := toPoint(p)
		if !ok {
			return [2][2]float64{}, false
		}
		seg[i] = pt
	}
	return seg, true
}

func toPoint(v any) ([2]float64, bool) {
	pair, ok := pairItems(v)
	if !ok {
		return [2]float64{}, false
	}
	x, okX := floatValue(pair[0])
	y, okY := floatValue(pair[1])
	if !okX || !okY {
		return [2]float64{}, false
	}
	return [2]float64{x, y}, true
}

// pairItems accepts a list or tuple of exactly two elements.
func pairItems(v any) ([2]any, bool) {
	var items []any
	switch s := v.(type) {
	case []any:
		items = s
	case Tuple:
		items = []any(s)
	default:
		return [2]any{}, false
	}
	if len(items) != 2 {
		return [2]any{}, false
	}
	return [2]any{items[0], items[1]}, true
}

func floatValue(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

func floatsFrom(v any) ([]float64, bool) {
	if v == nil {
		return nil, false
	}
	items, ok := anySlice(v)
	if !ok {
		return nil, false
	}
	out := make([]float64, len(items))
	for i, item := range items {
		f, ok := floatValue(item)
		if !ok {
			return nil, false
		}
		out[i] = f
	}
	return out, true
}

func shapeCountsFromArgs(raw any) (map[string]int, bool) {
	switch m := raw.(type) {
	case map[string]int:
		out := make(map[string]int, len(m))
		for k, v := range m {
			out[k] = v
		}
		return out, true
	case map[string]any:
		out := make(map[string]int, len(m))
		for k, v := range m {
			n, ok := looseInt(v)
			if !ok {
				return nil, false
			}
			out[k] = n
		}
		return out, true
	}
	return nil, false
}

func shapeCountsEqual(a, b map[string]int) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if b[k] != v {
			return false
		}
	}
	return true
}

// prepareUnitMapping builds the affine map from square coordinates back to
// unit coordinates. A missing corner spec means the square already is the
// unit square.
func prepareUnitMapping(rawCorners any) (unitMapping, string) {
	if rawCorners == nil {
		return unitMapping{axisU: [2]float64{1, 0}, axisV: [2]float64{0, 1}, invDet: 1}, ""
	}
	items, ok := anySlice(rawCorners)
	if !ok || len(items) != 4 {
		return unitMapping{}, "invalid_corners"
	}
	var corners [4][2]float64
	for i, item := range items {
		pt, ok := toPoint(item)
		if !ok {
			return unitMapping{}, "invalid_corners"
		}
		corners[i] = pt
	}

	origin := corners[0]
	axisU := [2]float64{corners[1][0] - origin[0], corners[1][1] - origin[1]}
	axisV := [2]float64{corners[3][0] - origin[0], corners[3][1] - origin[1]}
	det := axisU[0]*axisV[1] - axisU[1]*axisV[0]
	if math.Abs(det) < 1e-12 {
		return unitMapping{}, "degenerate_square"
	}
	return unitMapping{origin: origin, axisU: axisU, axisV: axisV, invDet: 1 / det}, ""
}

func toUnit(p [2]float64, m unitMapping) [2]float64 {
	dx := p[0] - m.origin[0]
	dy := p[1] - m.origin[1]
	return [2]float64{
		(dx*m.axisV[1] - dy*m.axisV[0]) * m.invDet,
		(m.axisU[0]*dy - m.axisU[1]*dx) * m.invDet,
	}
}

// normaliseSegments maps both endpoints of each segment into unit
// coordinates and validates them. The grid check runs against the original
// coordinates, everything else against the mapped ones.
func normaliseSegments(segments [][2][2]float64, m unitMapping, tol float64, grid []float64) ([]geom.Segment, string) {
	out := make([]geom.Segment, 0, len(segments))
	for _, seg := range segments {
		var mapped [2][2]float64
		for i, p := range seg {
			mapped[i] = toUnit(p, m)
		}
		if isClose(mapped[0][0], mapped[1][0], tol) && isClose(mapped[0][1], mapped[1][1], tol) {
			return nil, "degenerate_segment"
		}

		for i, p := range mapped {
			orig := seg[i]
			if grid != nil && (!onGrid(orig[0], grid, tol) || !onGrid(orig[1], grid, tol)) {
				return nil, "point_off_grid"
			}
			if p[0] < -tol || p[0] > 1+tol || p[1] < -tol || p[1] > 1+tol {
				return nil, "point_out_of_bounds"
			}
			if !onUnitBoundary(p, tol) {
				return nil, "point_not_on_boundary"
			}
		}

		if segmentOnBoundaryEdge(mapped[0], mapped[1], tol) {
			return nil, "segment_on_boundary_edge"
		}

		out = append(out, geom.Segment{
			r2.Vec{X: mapped[0][0], Y: mapped[0][1]},
			r2.Vec{X: mapped[1][0], Y: mapped[1][1]},
		})
	}
	return out, ""
}

// classifySegments snaps endpoints to the decimal grid, rejects endpoints
// that leave the unit square or its boundary, and counts the faces of the
// resulting arrangement.
func classifySegments(segments []geom.Segment, decimals int) (map[string]int, bool) {
	scale := math.Pow(10, float64(decimals))
	snapped := make([]geom.Segment, len(segments))
	for i, seg := range segments {
		for j, p := range seg {
			x := math.Round(p.X*scale) / scale
			y := math.Round(p.Y*scale) / scale
			if x < 0 || x > 1 || y < 0 || y > 1 {
				return nil, false
			}
			if !onUnitBoundary([2]float64{x, y}, 0) {
				return nil, false
			}
			snapped[i][j] = r2.Vec{X: x, Y: y}
		}
	}
	return geom.CountShapes(snapped, decimals), true
}

// isClose mirrors a relative-plus-absolute closeness test with a 1e-9
// relative floor.
func isClose(a, b, tol float64) bool {
	diff := math.Abs(a - b)
	return diff <= tol || diff <= 1e-9*math.Max(math.Abs(a), math.Abs(b))
}

func onGrid(value float64, grid []float64, tol float64) bool {
	for _, g := range grid {
		if math.Abs(value-g) <= tol {
			return true
		}
	}
	return false
}

func onUnitBoundary(p [2]float64, tol float64) bool {
	onVertical := isClose(p[0], 0, tol) || isClose(p[0], 1, tol)
	onHorizontal := isClose(p[1], 0, tol) || isClose(p[1], 1, tol)
	return onVertical || onHorizontal
}

func segmentOnBoundaryEdge(p0, p1 [2]float64, tol float64) bool {
	sameX := isClose(p0[0], p1[0], tol)
	sameY := isClose(p0[1], p1[1], tol)
	if sameX && (isClose(p0[0], 0, tol) || isClose(p0[0], 1, tol)) {
		return true
	}
	if sameY && (isClose(p0[1], 0, tol) || isClose(p0[1], 1, tol)) {
		return true
	}
	return false
}
