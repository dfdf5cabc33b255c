package rr

import "time"

type TimeRange struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

type StatisticalSummary struct {
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Count  int     `json:"count"`
}

type HistogramBin struct {
	RangeStart float64 `json:"range_start"`
	RangeEnd   float64 `json:"range_end"`
	Count      int     `json:"count"`
	Frequency  float64 `json:"frequency"`
}

type Histogram struct {
	Bins       []HistogramBin     `json:"bins"`
	TotalCount int                `json:"total_count"`
	BinWidth   float64            `json:"bin_width"`
	Statistics StatisticalSummary `json:"statistics"`
}

type TrendDirection string

const (
	TrendUp     TrendDirection = "up"
	TrendDown   TrendDirection = "down"
	TrendStable TrendDirection = "stable"
)

type TrendPoint struct {
	Time      time.Time      `json:"time"`
	Value     float64        `json:"value"`
	Direction TrendDirection `json:"direction"`
}

type TrendAnalysis struct {
	Period        string       `json:"period"`
	TrendPoints   []TrendPoint `json:"trend_points"`
	OverallTrend  string       `json:"overall_trend"`
	Correlation   float64      `json:"correlation"`
	Seasonality   []float64    `json:"seasonality"`
	TrendStrength float64      `json:"trend_strength"`
}

type HRVMetrics struct {
	RMSSD           float64 `json:"rmssd"`
	SDNN            float64 `json:"sdnn"`
	PNN50           float64 `json:"pnn50"`
	TriangularIndex float64 `json:"triangular_index"`
	TINN            float64 `json:"tinn"`
	VLFPower        float64 `json:"vlf_power"`
	LFPower         float64 `json:"lf_power"`
	HFPower         float64 `json:"hf_power"`
	LFHFRatio       float64 `json:"lf_hf_ratio"`
	TotalPower      float64 `json:"total_power"`
}

type Statistics struct {
	Summary    StatisticalSummary `json:"summary"`
	Histogram  *Histogram         `json:"histogram,omitempty"`
	HRVMetrics *HRVMetrics        `json:"hrv_metrics,omitempty"`
	TimeRange  TimeRange          `json:"time_range"`
}

type AggregatedPoint struct {
	Time   time.Time `json:"time"`
	Mean   float64   `json:"mean"`
	StdDev float64   `json:"std_dev"`
	Min    float64   `json:"min"`
	Max    float64   `json:"max"`
	Count  int       `json:"count"`
}

type Aggregated struct {
	Data            []AggregatedPoint `json:"data"`
	TimeRange       TimeRange         `json:"time_range"`
	IntervalMinutes int               `json:"interval_minutes"`
}

type HistogramResponse struct {
	Histogram Histogram `json:"histogram"`
	TimeRange TimeRange `json:"time_range"`
}

type TrendsResponse struct {
	TrendAnalysis TrendAnalysis `json:"trend_analysis"`
	TimeRange     TimeRange     `json:"time_range"`
}

type HRVResponse struct {
	HRVMetrics HRVMetrics `json:"hrv_metrics"`
	TimeRange  TimeRange  `json:"time_range"`
}

type DifferentialStatistics struct {
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Count  int     `json:"count"`
	RMSSD  float64 `json:"rmssd"`
}

type DifferentialHistogram struct {
	Bins       []HistogramBin         `json:"bins"`
	TotalCount int                    `json:"total_count"`
	BinWidth   float64                `json:"bin_width"`
	Statistics DifferentialStatistics `json:"statistics"`
}

// PoincarePoint pairs successive intervals RR(n) and RR(n+1).
type PoincarePoint struct {
	RRn  float64 `json:"rr_n"`
	RRn1 float64 `json:"rr_n1"`
}

type ScatterplotStatistics struct {
	SD1         float64 `json:"sd1"`
	SD2         float64 `json:"sd2"`
	SD1SD2Ratio float64 `json:"sd1_sd2_ratio"`
	CSI         float64 `json:"csi"`
	CVI         float64 `json:"cvi"`
}

type Ellipse struct {
	CenterX float64 `json:"center_x"`
	CenterY float64 `json:"center_y"`
	SD1     float64 `json:"sd1"`
	SD2     float64 `json:"sd2"`
	Area    float64 `json:"area"`
}

type Scatterplot struct {
	Points     []PoincarePoint       `json:"points"`
	TotalCount int                   `json:"total_count"`
	Statistics ScatterplotStatistics `json:"statistics"`
	Ellipse    Ellipse               `json:"ellipse"`
}

type DataQuality struct {
	TotalMeasurements   int     `json:"total_measurements"`
	ValidMeasurements   int     `json:"valid_measurements"`
	InvalidMeasurements int     `json:"invalid_measurements"`
	QualityPercentage   float64 `json:"quality_percentage"`
	MissingDataGaps     int     `json:"missing_data_gaps"`
	LargestGapDuration  string  `json:"largest_gap_duration"`
	AverageSamplingRate float64 `json:"average_sampling_rate"`
}

type CompleteAnalysis struct {
	RawValues             []float64             `json:"raw_values,omitempty"`
	TimeRange             TimeRange             `json:"time_range"`
	Statistics            StatisticalSummary    `json:"statistics"`
	HRVMetrics            HRVMetrics            `json:"hrv_metrics"`
	AggregatedData        []AggregatedPoint     `json:"aggregated_data"`
	TrendAnalysis         TrendAnalysis         `json:"trend_analysis"`
	Histogram             Histogram             `json:"histogram"`
	DifferentialHistogram DifferentialHistogram `json:"differential_histogram"`
	Scatterplot           Scatterplot           `json:"scatterplot"`
	ProcessingTime        string                `json:"processing_time"`
	DataQuality           DataQuality           `json:"data_quality"`
}

type CompleteAnalysisResponse struct {
	Data    CompleteAnalysis `json:"data"`
	Success bool             `json:"success"`
	Message string           `json:"message,omitempty"`
}

type Interval struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	DeviceID     string    `json:"device_id"`
	RRIntervalMS float64   `json:"rr_interval_ms"`
	BPM          float64   `json:"bpm"`
	CreatedAt    time.Time `json:"created_at"`
	IsValid      bool      `json:"is_valid"`
}

type IntervalsResponse struct {
	Intervals  []Interval `json:"intervals"`
	TotalCount int        `json:"total_count"`
	ValidCount int        `json:"valid_count"`
	TimeRange  TimeRange  `json:"time_range"`
}

type Device struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	DeviceName string    `json:"device_name"`
	CreatedAt  time.Time `json:"created_at"`
}

type User struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type Settings struct {
	Email       string `json:"email"`
	HasPassword bool   `json:"has_password"`
	HasTelegram bool   `json:"has_telegram"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	FirstName  string `json:"first_name"`
	SecondName string `json:"second_name"`
	Email      string `json:"email"`
	Password   string `json:"password"`
}

// TelegramAuth is the payload signed by the Telegram login widget.
type TelegramAuth struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name,omitempty"`
	Username  string `json:"username,omitempty"`
	PhotoURL  string `json:"photo_url,omitempty"`
	AuthDate  int64  `json:"auth_date"`
	Hash      string `json:"hash"`
}

type TelegramConfirmRequest struct {
	TempID    string `json:"temp_id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type AuthResponse struct {
	AccessToken string `json:"access_token"`
	ID          string `json:"id"`
}

type refreshResponse struct {
	AccessToken string `json:"access_token"`
}
