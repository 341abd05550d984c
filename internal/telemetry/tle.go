package telemetry

// bundledTLEs is the constellation subset the mock source propagates when no
// live catalog is available. Orbital planes are spread in RAAN and phase so
// a few candidates are usually above the horizon at any time.
type bundledTLE struct {
	id      string
	name    string
	noradID int
	line1   string
	line2   string
}

var bundledTLEs = []bundledTLE{
	{
		id:      "SAT-44713",
		name:    "STARLINK-1007",
		noradID: 44713,
		line1:   "1 44713U 19074A   21275.59097222  .00000204  00000-0  10270-4 0  9990",
		line2:   "2 44713  53.0541 115.9059 0001817  61.3028  35.9198 15.06391562257760",
	},
	{
		id:      "SAT-44714",
		name:    "STARLINK-1008",
		noradID: 44714,
		line1:   "1 44714U 19074B   21275.59097222  .00000204  00000-0  10270-4 0  9991",
		line2:   "2 44714  53.0541 160.9059 0001817  61.3028  80.9198 15.06391562257761",
	},
	{
		id:      "SAT-44715",
		name:    "STARLINK-1009",
		noradID: 44715,
		line1:   "1 44715U 19074C   21275.59097222  .00000204  00000-0  10270-4 0  9992",
		line2:   "2 44715  53.0541 205.9059 0001817  61.3028 125.9198 15.06391562257762",
	},
	{
		id:      "SAT-44716",
		name:    "STARLINK-1010",
		noradID: 44716,
		line1:   "1 44716U 19074D   21275.59097222  .00000204  00000-0  10270-4 0  9993",
		line2:   "2 44716  53.0541 250.9059 0001817  61.3028 170.9198 15.06391562257763",
	},
	{
		id:      "SAT-44717",
		name:    "STARLINK-1011",
		noradID: 44717,
		line1:   "1 44717U 19074E   21275.59097222  .00000204  00000-0  10270-4 0  9994",
		line2:   "2 44717  53.0541 295.9059 0001817  61.3028 215.9198 15.06391562257764",
	},
	{
		id:      "SAT-44718",
		name:    "STARLINK-1012",
		noradID: 44718,
		line1:   "1 44718U 19074F   21275.59097222  .00000204  00000-0  10270-4 0  9995",
		line2:   "2 44718  53.0541 340.9059 0001817  61.3028 260.9198 15.06391562257765",
	},
	{
		id:      "SAT-44719",
		name:    "STARLINK-1013",
		noradID: 44719,
		line1:   "1 44719U 19074G   21275.59097222  .00000204  00000-0  10270-4 0  9996",
		line2:   "2 44719  53.0541 025.9059 0001817  61.3028 305.9198 15.06391562257766",
	},
	{
		id:      "SAT-44720",
		name:    "STARLINK-1014",
		noradID: 44720,
		line1:   "1 44720U 19074H   21275.59097222  .00000204  00000-0  10270-4 0  9997",
		line2:   "2 44720  53.0541 070.9059 0001817  61.3028 350.9198 15.06391562257767",
	},
	{
		id:      "SAT-48696",
		name:    "ONEWEB-0241",
		noradID: 48696,
		line1:   "1 48696U 21049A   21275.59097222  .00000204  00000-0  10270-4 0  9998",
		line2:   "2 48696  87.4001 130.9059 0001817  61.3028  95.9198 13.15391562257768",
	},
	{
		id:      "SAT-48697",
		name:    "ONEWEB-0242",
		noradID: 48697,
		line1:   "1 48697U 21049B   21275.59097222  .00000204  00000-0  10270-4 0  9999",
		line2:   "2 48697  87.4001 310.9059 0001817  61.3028 275.9198 13.15391562257769",
	},
}
