package xshop

// Shop 是一家店铺的展示数据。
type Shop struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	TypeID   int64   `json:"typeId"`
	Address  string  `json:"address"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	AvgPrice int64   `json:"avgPrice"`
	Sold     int64   `json:"sold"`
	Comments int64   `json:"comments"`
	Score    int     `json:"score"`
	// OpenHours 营业时间描述，如 "10:00-22:00"。
	OpenHours string `json:"openHours"`
}

// ShopType 是店铺分类。
type ShopType struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Icon string `json:"icon"`
	Sort int    `json:"sort"`
}
