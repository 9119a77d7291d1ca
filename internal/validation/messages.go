package validation

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

var fieldMessages = map[string]map[string]string{
	"username": {
		"required": "ユーザーIDは必須です",
		"min":      "ユーザーIDは3文字以上で入力してください",
		"max":      "ユーザーIDは50文字以内で入力してください",
		TagUserID:  "ユーザーIDは英数字、アンダースコア、ハイフンのみ使用できます",
	},
	"password": {
		"required": "パスワードは必須です",
		"min":      "パスワードは6文字以上で入力してください",
	},
	"full_name": {
		"required": "氏名は必須です",
		"min":      "氏名は必須です",
		"max":      "氏名は50文字以内で入力してください",
	},
	"move_date": {
		"required": "引越し予定日は必須です",
		TagISODate: "正しい日付形式で入力してください",
		TagNotPast: "引越し予定日は今日以降の日付を選択してください",
	},
	"current_postal_code": {
		"required":    "郵便番号は必須です",
		TagPostalCode: "郵便番号は xxx-xxxx の形式で入力してください",
	},
	"destinationPostalCode": {
		TagPostalCode: "郵便番号は xxx-xxxx の形式で入力してください",
	},
	"phone_number": {
		TagPhoneJP: "電話番号は 0xx-xxxx-xxxx の形式で入力してください",
	},
	"custom_notes": {
		"max": "メモは500文字以内で入力してください",
	},
	"status": {
		"oneof": "ステータスが正しくありません",
	},
	"max_rent": {
		"min": "賃料は0以上で入力してください",
		"max": "賃料は100万円以下で入力してください",
	},
	"nearest_station": {
		"max": "駅名は50文字以内で入力してください",
	},
	"min_floor_area": {
		"min": "面積は0以上で入力してください",
	},
	"max_floor_area": {
		"min": "面積は0以上で入力してください",
	},
	"min_build_year": {
		"min":            "築年数は1900年以降で入力してください",
		TagNotFutureYear: "築年数は現在年以下で入力してください",
	},
	"max_build_year": {
		"min":            "築年数は1900年以降で入力してください",
		TagNotFutureYear: "築年数は現在年以下で入力してください",
	},
	"max_walk_minutes": {
		"min": "徒歩時間は0分以上で入力してください",
		"max": "徒歩時間は60分以下で入力してください",
	},
}

// FieldErrors maps each failing field to its message. ok is false when err
// is not a validation failure.
func FieldErrors(err error) (map[string]string, bool) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil, false
	}

	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		if _, seen := out[fe.Field()]; seen {
			continue
		}
		out[fe.Field()] = message(fe)
	}
	return out, true
}

func message(fe validator.FieldError) string {
	if byTag, ok := fieldMessages[fe.Field()]; ok {
		if msg, ok := byTag[fe.Tag()]; ok {
			return msg
		}
	}
	return "入力内容が正しくありません"
}
