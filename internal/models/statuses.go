package models

import "strings"

type ActivityState string
type BlobType string
type Channel string
type OutboxStatus string

const (
	ActivityStateDraft    ActivityState = "draft"
	ActivityStateSent     ActivityState = "sent"
	ActivityStateProgress ActivityState = "progress"
	ActivityStateReady    ActivityState = "ready"
	ActivityStateFinished ActivityState = "finished"
	ActivityStateDeleted  ActivityState = "deleted"

	BlobTypeSpecificationSheet BlobType = "specification_sheet"
	BlobTypeDrawing            BlobType = "drawing"
	BlobTypeFrontItem          BlobType = "front_item"
	BlobTypeBackItem           BlobType = "back_item"
	BlobTypeLogos              BlobType = "logos"
	BlobTypeOther              BlobType = "other"
	BlobTypeCover              BlobType = "cover"

	ChannelEmail Channel = "email"
	ChannelSMS   Channel = "sms"

	OutboxStatusPending OutboxStatus = "pending"
	OutboxStatusSent    OutboxStatus = "sent"
	OutboxStatusFailed  OutboxStatus = "failed"
)

var activityStates = []ActivityState{
	ActivityStateDraft,
	ActivityStateSent,
	ActivityStateProgress,
	ActivityStateReady,
	ActivityStateFinished,
	ActivityStateDeleted,
}

var blobTypes = []BlobType{
	BlobTypeSpecificationSheet,
	BlobTypeDrawing,
	BlobTypeFrontItem,
	BlobTypeBackItem,
	BlobTypeLogos,
	BlobTypeOther,
	BlobTypeCover,
}

func (s ActivityState) IsValid() bool {
	for _, v := range activityStates {
		if v == s {
			return true
		}
	}
	return false
}

// ParseBlobType разбирает имя части multipart
func ParseBlobType(s string) (BlobType, bool) {
	t := BlobType(strings.ToLower(strings.TrimSpace(s)))
	for _, v := range blobTypes {
		if v == t {
			return t, true
		}
	}
	return "", false
}

// ItemBlobTypes - типы файлов, которые принимает товар (обложка только у коллекций)
func ItemBlobTypes() []BlobType {
	return blobTypes[:len(blobTypes)-1]
}
