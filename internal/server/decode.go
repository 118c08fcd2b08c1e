package server

import (
	"bytes"
	"encoding/json"

	"crowdfund/pkg/types"
)

func decodeStrict(raw json.RawMessage, dest any) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	return dec.Decode(dest)
}

func decodeNeedDetail(needType types.NeedType, raw json.RawMessage) (types.NeedDetail, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, types.NewValidationError("detail", "is required")
	}

	var detail types.NeedDetail
	switch needType {
	case types.NeedTypeMoney:
		detail = new(types.MoneyNeed)
	case types.NeedTypeTime:
		detail = new(types.TimeNeed)
	case types.NeedTypeItem:
		detail = new(types.ItemNeed)
	default:
		return nil, types.NewValidationError("needType", "must be one of money, time, item")
	}

	if err := decodeStrict(raw, detail); err != nil {
		return nil, types.NewValidationError("detail", "invalid %s need detail: %s", needType, err)
	}

	return detail, nil
}

func decodePledgeDetail(needType types.NeedType, raw json.RawMessage) (types.PledgeDetail, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, types.NewValidationError("detail", "is required")
	}

	var detail types.PledgeDetail
	switch needType {
	case types.NeedTypeMoney:
		detail = new(types.MoneyPledge)
	case types.NeedTypeTime:
		detail = new(types.TimePledge)
	case types.NeedTypeItem:
		detail = new(types.ItemPledge)
	default:
		return nil, types.NewValidationError("needType", "must be one of money, time, item")
	}

	if err := decodeStrict(raw, detail); err != nil {
		return nil, types.NewValidationError("detail", "invalid %s pledge detail: %s", needType, err)
	}

	return detail, nil
}
