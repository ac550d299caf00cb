package dto

type AreaPairResponse struct {
	Area     string `json:"area"`
	District string `json:"district,omitempty"`
}

type DispatcherResponse struct {
	DispatcherID    int64               `json:"dispatcher_id"`
	Name            string              `json:"name"`
	Phone           string              `json:"phone,omitempty"`
	Email           string              `json:"email,omitempty"`
	ActiveDay       map[string][]string `json:"active_day,omitempty"`
	ResponsibleArea []AreaPairResponse  `json:"responsible_area"`
}

type ListDispatchersResponse struct {
	Dispatchers []DispatcherResponse `json:"dispatchers"`
}
