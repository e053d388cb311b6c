// Package calendar inserts events into the user's primary Google Calendar.
//
// Every event starts at the current time and lasts exactly one hour.
//
// Example usage:
//
//	httpClient, err := flow.HTTPClient(ctx)
//	if err != nil {
//	    return err
//	}
//	client, err := calendar.NewClient(ctx, httpClient)
//	if err != nil {
//	    return err
//	}
//	event, err := client.InsertEvent(ctx, calendar.EventInput{Summary: "Team Sync", Location: "Room 4"})
//	if err != nil {
//	    return err
//	}
//	fmt.Println(event.ID)
package calendar
