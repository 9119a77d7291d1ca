package metrics

type ServiceType string

const (
	ServiceNuro      ServiceType = "nuro"
	ServiceInsurance ServiceType = "insurance"
)

// Mission is a sponsored call to action shown on the missions screen.
type Mission struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	ServiceType ServiceType `json:"service_type"`
	CTAText     string      `json:"cta_text"`
}

var Missions = []Mission{
	{
		ID:          "nuro_internet",
		Title:       "NURO 光を契約しよう",
		Description: "NURO 光は、ソニーネットワークコミュニケーションズが提供する超高速光ファイバーインターネット接続サービスです",
		ServiceType: ServiceNuro,
		CTAText:     "契約する",
	},
	{
		ID:          "sony_insurance",
		Title:       "ソニー生命の火災保険に入ろう",
		Description: "ソニー損保の新ネット火災保険は、ソニーグループが提供する火災保険サービスで、2020年から2025年までオリコン顧客満足度調査火災保険部門で連続第1位を受賞している商品です",
		ServiceType: ServiceInsurance,
		CTAText:     "契約する",
	},
}
