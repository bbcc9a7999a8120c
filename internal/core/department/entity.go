package department

// Department は部署エンティティです。
type Department struct {
	ID          int64
	Name        string
	Description string
	Location    string
	// HeadStaffID は部署長の職員 ID です。外部キー制約は持ちません。
	HeadStaffID *int64
}
