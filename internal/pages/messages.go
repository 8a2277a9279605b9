package pages

// Message keys for page defaults. Every fallback string shown to visitors goes
// through the locale bundle.
const (
	keyHeroDescription    = "index.hero_description"
	keyHeroAlt            = "index.hero_alt"
	keyHeroImageN         = "index.hero_image_n"
	keyEssenceTitle       = "index.essence_title"
	keyEssenceDescription = "index.essence_description"
	keySignatureAlt       = "index.signature_alt"
	keySignatureCaption   = "index.signature_caption"
	keyClosingTitle       = "index.closing_title"
	keyClosingDescription = "index.closing_description"

	keyAboutDescription = "main.about_description"
	keyAboutAlt         = "main.about_alt"

	keyRoomHeroTitle     = "room.hero_title"
	keyRoomTypeDefault   = "room.type_default"
	keyRoomViewAlt       = "room.view_alt"
	keyRoomThumbAlt      = "room.thumb_alt"
	keyGalleryTextKo     = "room.gallery_placeholder_ko"
	keyGalleryTextEn     = "room.gallery_placeholder_en"
	keyBedroomCount      = "room.bedroom_count"
	keyBathroomCount     = "room.bathroom_count"
	keyLivingRoomCount   = "room.living_room_count"
	keyPersonUnit        = "unit.person"
	keyNoInfo            = "placeholder.no_info"

	keyFacilityAlt        = "facility.image_alt"
	keyGalleryUnavailable = "facility.gallery_unavailable"

	keyReservationTitle      = "reservation.title"
	keyReservationHeroAlt    = "reservation.hero_alt"
	keyReservationAboutAlt   = "reservation.about_alt"
	keyUsageGuideEmpty       = "reservation.usage_guide_empty"
	keyReservationGuideEmpty = "reservation.guide_empty"
	keyCheckInOutEmpty       = "reservation.checkinout_empty"
	keyRefundNoticeEmpty     = "reservation.refund_notice_empty"
	keyRefundPolicyEmpty     = "reservation.refund_policy_empty"
	keyRefundHeaderCutoff    = "reservation.refund_header_cutoff"
	keyRefundHeaderRate      = "reservation.refund_header_rate"
	keyRefundSameDay         = "reservation.refund_same_day"
	keyRefundDaysBefore      = "reservation.refund_days_before"

	keyDirectionsTitle     = "directions.title"
	keyDirectionsHeroAlt   = "directions.hero_alt"
	keyDirectionsCircleAlt = "directions.circle_alt"
	keyMapFallbackQuery    = "directions.map_fallback_query"
	keyMapHint             = "directions.map_hint"

	keyRepresentative = "label.representative"
	keyPhone          = "label.phone"
	keyAddress        = "label.address"
	keyBusinessNumber = "label.business_number"
	keyCopyright      = "footer.copyright"
	keyFacilityN      = "menu.facility_n"
)
