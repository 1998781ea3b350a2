package screening

import (
	"fmt"
	"math"
	"runtime"
	"sort"
	"sync"
)

// HaversineKm returns the great-circle distance between two points given in
// degrees, on a sphere of the given radius.
func HaversineKm(lat1, long1, lat2, long2, earthRadiusKm float64) float64 {
	dLat := toRadians(lat2 - lat1)
	dLong := toRadians(long2 - long1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(lat1))*math.Cos(toRadians(lat2))*
			math.Sin(dLong/2)*math.Sin(dLong/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}

// geoPoint is a georeferenced record with its position in the input.
type geoPoint struct {
	pos  int
	id   string
	lat  float64
	long float64
}

// latitudeIndex keeps points sorted by latitude so a lookup only visits points
// inside a latitude band. Pruning on latitude is exact only while every
// latitude lies in [-90, 90]: then the haversine distance is never shorter
// than R·|Δlat|. Out-of-range latitudes wrap over the pole in the formula, so
// batches containing one are scanned in full.
type latitudeIndex struct {
	byLat []geoPoint
}

func newLatitudeIndex(points []geoPoint) *latitudeIndex {
	sorted := append([]geoPoint(nil), points...)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].lat != sorted[j].lat {
			return sorted[i].lat < sorted[j].lat
		}
		return sorted[i].pos < sorted[j].pos
	})
	return &latitudeIndex{byLat: sorted}
}

// within calls fn for every indexed point whose latitude lies in [lo, hi].
func (ix *latitudeIndex) within(lo, hi float64, fn func(geoPoint)) {
	start := sort.Search(len(ix.byLat), func(i int) bool { return ix.byLat[i].lat >= lo })
	for i := start; i < len(ix.byLat) && ix.byLat[i].lat <= hi; i++ {
		fn(ix.byLat[i])
	}
}

// clusterDetector flags records with too many neighbors inside the radius.
type clusterDetector struct {
	rules ClusterRules
	// bandDeg is the latitude half-width, in degrees, outside of which no
	// point can be within the radius. Padded against rounding.
	bandDeg float64
}

func newClusterDetector(rules ClusterRules) *clusterDetector {
	band := rules.RadiusKm / rules.EarthRadiusKm * 180 / math.Pi
	return &clusterDetector{
		rules:   rules,
		bandDeg: band*(1+1e-9) + 1e-12,
	}
}

// detect evaluates every georeferenced record on its own, so neighbor lists
// of two records in the same area may differ.
func (d *clusterDetector) detect(records []ApplicationRecord) []FraudFlag {
	points := make([]geoPoint, 0, len(records))
	byPos := make(map[int]ApplicationRecord)
	for i, rec := range records {
		if !rec.HasGPS() {
			continue
		}
		points = append(points, geoPoint{pos: i, id: rec.ID, lat: *rec.GPSLat, long: *rec.GPSLong})
		byPos[i] = rec
	}
	if len(points) < d.rules.MinClusterSize {
		return nil
	}

	neighbors := d.neighborLists(points)

	var flags []FraudFlag
	for i, p := range points {
		size := len(neighbors[i]) + 1
		if size < d.rules.MinClusterSize {
			continue
		}
		multiplier := 1.0
		if !byPos[p.pos].HasAadhaar() {
			multiplier = d.rules.NoAadhaarBoost
		}
		flags = append(flags, FraudFlag{
			ApplicationID: p.id,
			Type:          FlagGPSCluster,
			RelatedTo:     neighbors[i],
			Confidence:    boosted(d.rules.Confidence, multiplier),
			Description:   fmt.Sprintf("%d applications within %gm radius", size, d.rules.RadiusKm*1000),
		})
	}
	return flags
}

// neighborLists returns, for each point, the ids of the other points within the
// radius in input order. Large inputs are split across goroutines; every shard
// writes only its own slots so the result does not depend on scheduling.
func (d *clusterDetector) neighborLists(points []geoPoint) [][]string {
	ix := newLatitudeIndex(points)
	band := d.bandDeg
	if !latitudesInRange(points) {
		band = math.Inf(1)
	}
	out := make([][]string, len(points))

	scan := func(from, to int) {
		for i := from; i < to; i++ {
			out[i] = d.neighborsOf(ix, points[i], band)
		}
	}

	if d.rules.ParallelMinSize <= 0 || len(points) < d.rules.ParallelMinSize {
		scan(0, len(points))
		return out
	}

	workers := runtime.GOMAXPROCS(0)
	shard := (len(points) + workers - 1) / workers
	var wg sync.WaitGroup
	for from := 0; from < len(points); from += shard {
		to := min(from+shard, len(points))
		wg.Go(func() { scan(from, to) })
	}
	wg.Wait()
	return out
}

// latitudesInRange reports whether the latitude band is a safe prune for
// points. NaN fails the check as well.
func latitudesInRange(points []geoPoint) bool {
	for _, p := range points {
		if !(p.lat >= -90 && p.lat <= 90) {
			return false
		}
	}
	return true
}

// neighborsOf lists the points within the radius of p, visiting only those
// whose latitude is within band degrees. An infinite band visits every point.
func (d *clusterDetector) neighborsOf(ix *latitudeIndex, p geoPoint, band float64) []string {
	var found []geoPoint
	visit := func(q geoPoint) {
		if q.pos == p.pos {
			return
		}
		if HaversineKm(p.lat, p.long, q.lat, q.long, d.rules.EarthRadiusKm) <= d.rules.RadiusKm {
			found = append(found, q)
		}
	}
	if math.IsInf(band, 1) {
		for _, q := range ix.byLat {
			visit(q)
		}
	} else {
		ix.within(p.lat-band, p.lat+band, visit)
	}
	sort.Slice(found, func(i, j int) bool { return found[i].pos < found[j].pos })

	ids := make([]string, len(found))
	for i, q := range found {
		ids[i] = q.id
	}
	return ids
}
