package http

type PeriodQuery struct {
	From string `form:"from"`
	To   string `form:"to"`
}
