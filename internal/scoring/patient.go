package scoring

// PatientParameters is the immutable input record for one evaluation request.
// Every clinical field is a pointer: nil means "not evaluated", which is
// deliberately distinct from a zero measurement. The scorer deducts nothing
// for absent fields and the prompt builder omits them entirely.
//
// Units follow the intake form: pressures in mmHg, lactate and bicarbonate in
// mmol/L, creatinine and bilirubin in µmol/L, illness duration in days.
type PatientParameters struct {
	PatientID   string  `json:"patientId"`
	PatientName *string `json:"patientName,omitempty"`

	// ── Demographics ─────────────────────────────────────────────────────────
	Age    *int     `json:"age,omitempty" validate:"omitempty,gte=0,lte=130"`
	Gender *string  `json:"gender,omitempty"`
	Weight *float64 `json:"weight,omitempty" validate:"omitempty,gt=0"`
	Height *float64 `json:"height,omitempty" validate:"omitempty,gt=0"`

	// ── Vital signs ──────────────────────────────────────────────────────────
	HeartRate        *int     `json:"heartRate,omitempty" validate:"omitempty,gte=0"`
	SystolicBP       *int     `json:"systolicBP,omitempty" validate:"omitempty,gte=0"`
	DiastolicBP      *int     `json:"diastolicBP,omitempty" validate:"omitempty,gte=0"`
	Temperature      *float64 `json:"temperature,omitempty"`
	RespiratoryRate  *int     `json:"respiratoryRate,omitempty" validate:"omitempty,gte=0"`
	OxygenSaturation *float64 `json:"oxygenSaturation,omitempty" validate:"omitempty,gte=0,lte=100"`

	// ── Arterial blood gas ───────────────────────────────────────────────────
	PH           *float64 `json:"pH,omitempty" validate:"omitempty,gte=6,lte=8"`
	PaCO2        *float64 `json:"paCO2,omitempty" validate:"omitempty,gte=0"`
	PaO2         *float64 `json:"paO2,omitempty" validate:"omitempty,gte=0"`
	Bicarbonate  *float64 `json:"bicarbonate,omitempty" validate:"omitempty,gte=0"`
	Lactate      *float64 `json:"lactate,omitempty" validate:"omitempty,gte=0"`
	BaseExcess   *float64 `json:"baseExcess,omitempty"`
	PO2FiO2Ratio *float64 `json:"pO2FiO2Ratio,omitempty" validate:"omitempty,gte=0"`

	// ── Cardiac function ─────────────────────────────────────────────────────
	EjectionFraction *float64 `json:"ejectionFraction,omitempty" validate:"omitempty,gte=0,lte=100"`
	CardiacIndex     *string  `json:"cardiacIndex,omitempty"`

	// ── Diagnosis and course ─────────────────────────────────────────────────
	PrimaryDiagnosis   *string `json:"primaryDiagnosis,omitempty"`
	SecondaryDiagnosis *string `json:"secondaryDiagnosis,omitempty"`
	IllnessDuration    *int    `json:"illnessDuration,omitempty" validate:"omitempty,gte=0"` // days of cardiopulmonary failure
	Comorbidities      *string `json:"comorbidities,omitempty"`
	CurrentTreatment   *string `json:"currentTreatment,omitempty"`

	// ── Laboratory ───────────────────────────────────────────────────────────
	Hemoglobin    *float64 `json:"hemoglobin,omitempty" validate:"omitempty,gte=0"`
	PlateletCount *float64 `json:"plateletCount,omitempty" validate:"omitempty,gte=0"`
	Creatinine    *float64 `json:"creatinine,omitempty" validate:"omitempty,gte=0"`
	Bilirubin     *float64 `json:"bilirubin,omitempty" validate:"omitempty,gte=0"`
}
