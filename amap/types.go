package amap

// StatusOK is the status value AMap returns on success.
const StatusOK = "1"

// SearchResponse is the payload of /v3/bus/linename.
type SearchResponse struct {
	Status   string    `json:"status"`
	Info     string    `json:"info"`
	Count    string    `json:"count"`
	Buslines []Busline `json:"buslines"`
}

// DetailResponse is the payload of /v3/bus/lineid.
type DetailResponse struct {
	Status   string    `json:"status"`
	Info     string    `json:"info"`
	Count    string    `json:"count"`
	Buslines []Busline `json:"buslines"`
}

// Busline is one bus line record. With extensions=all the detail endpoint
// fills Polyline and Busstops; the search endpoint may leave them sparse.
type Busline struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Type       string    `json:"type"`
	Company    string    `json:"company"`
	StartStop  string    `json:"start_stop"`
	EndStop    string    `json:"end_stop"`
	Distance   string    `json:"distance"`
	BasicPrice string    `json:"basic_price"`
	TotalPrice string    `json:"total_price"`
	StartTime  string    `json:"start_time"`
	EndTime    string    `json:"end_time"`
	Polyline   string    `json:"polyline"` // "lon,lat;lon,lat;..."
	Busstops   []Busstop `json:"busstops"`
}

// Busstop is one stop on a bus line.
type Busstop struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Sequence string `json:"sequence"`
	Location string `json:"location"` // "lon,lat"
}
