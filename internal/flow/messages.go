package flow

import (
	"fmt"
	"time"

	"github.com/calenhq/calen/internal/calendar"
)

// User-facing utterances. The assistant speaks Turkish.
const (
	msgGenericError = "Bir hata oluştu. Lütfen daha sonra tekrar deneyiniz."

	msgCreateNotUnderstood = "Üzgünüm, isteğinizi anlayamadım. Lütfen tekrar deneyiniz."
	msgCreateDone          = "Etkinlik oluşturuldu."
	msgCreateDoneMany      = "%d etkinlik oluşturuldu."

	msgListError      = "Listelerken bir hata oluştu. Lütfen daha sonra tekrar deneyiniz."
	msgListEmptyRange = "Listelemek istediğiniz bir etkinlik bulunamadı"
	msgListNoneMatch  = "Herhangi bir etkinlik bulunamadı"
	msgListFound      = "Etkinlikleri aşağıda görebilirsiniz"

	msgDeleteEmptyRange = "Silinecek herhangi bir etkinlik bulunamadı"
	msgDeleteNoneMatch  = "Silinecek herhangi bir etkinlik bulunamadı"
	msgDeleteFound      = "Silinmesini istediğiniz etkinlikleri aşağıda görebilirsiniz. Lütfen silmek istediğiniz etkinliği seçiniz."

	msgUpdateEmptyRange = "Güncellenecek herhangi bir etkinlik bulunamadı"
	msgUpdateNoneMatch  = "Güncellenecek herhangi bir etkinlik bulunamadı"
	msgUpdateFound      = "Güncellenmesini istediğiniz etkinlikleri aşağıda görebilirsiniz. Lütfen güncellemek istediğiniz etkinliği seçiniz."
)

const localTimeLayout = "02.01.2006 15:04"

// conflictMessage names the colliding event and its local time range.
func conflictMessage(conflict calendar.Event) string {
	start := conflict.StartDate.Format(localTimeLayout)
	end := ""
	if conflict.EndDate != nil {
		end = conflict.EndDate.Format("15:04")
		if !sameDay(conflict.StartDate, *conflict.EndDate) {
			end = conflict.EndDate.Format(localTimeLayout)
		}
	}
	if end == "" {
		return fmt.Sprintf("Bu zaman aralığında çakışan bir etkinlik var: %s (%s)", conflict.Title, start)
	}
	return fmt.Sprintf("Bu zaman aralığında çakışan bir etkinlik var: %s (%s - %s)", conflict.Title, start, end)
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func createDoneMessage(count int) string {
	if count == 1 {
		return msgCreateDone
	}
	return fmt.Sprintf(msgCreateDoneMany, count)
}
