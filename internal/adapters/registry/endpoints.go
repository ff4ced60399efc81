package registry

import (
	"fmt"
	"net/url"
)

// Fixed upstream endpoints. The CGI ones are the legacy XML services of the
// finance ministry and must be reproduced byte for byte, parameter casing
// included (darv_res.cgi wants ICO, ares_es.cgi wants ico)
const (
	basicURL  = "https://ares.gov.cz/ekonomicke-subjekty-v-be/rest/ekonomicke-subjekty/%s"
	detailURL = "http://wwwinfo.mfcr.cz/cgi-bin/ares/darv_res.cgi?ICO=%s"
	taxURL    = "http://wwwinfo.mfcr.cz/cgi-bin/ares/ares_es.cgi?ico=%s&filtr=0"
	searchURL = "http://wwwinfo.mfcr.cz/cgi-bin/ares/ares_es.cgi?obch_jm=%s&obec=%s&filtr=0"
)

// BasicURL returns the JSON basic-info endpoint for one subject
func BasicURL(id string) string {
	return fmt.Sprintf(basicURL, id)
}

// DetailURL returns the legacy XML company-detail endpoint for one subject
func DetailURL(id string) string {
	return fmt.Sprintf(detailURL, id)
}

// TaxURL returns the legacy XML tax-detail endpoint for one subject
func TaxURL(id string) string {
	return fmt.Sprintf(taxURL, id)
}

// SearchURL returns the fulltext search endpoint for a name and optional
// city. Terms must already be diacritics free, escaping happens here
func SearchURL(name, city string) string {
	return fmt.Sprintf(searchURL, url.QueryEscape(name), url.QueryEscape(city))
}
