package service

const (
	DefaultHorizonYears = 2 // años proyectados por defecto
	MaxHorizonYears     = 2
	MinProjectionYears  = 2 // años históricos distintos necesarios para proyectar

	MaxAnalysisYears   = 50   // máximo de años por análisis
	MaxRecordsPerBatch = 1000 // máximo de registros de banda por request
)
